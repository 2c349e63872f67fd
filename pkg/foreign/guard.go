package foreign

import "sync/atomic"

// Guard runs a release action exactly once. It is the scoped-resource
// primitive underlying watcher guards and disposal chain entries: acquire
// a resource, wrap its release in a Guard, and Release can then be called
// from any number of teardown paths without double-freeing.
type Guard struct {
	releaseFn func()
	done      atomic.Bool
}

// NewGuard wraps a release action. A nil action yields an inert guard.
func NewGuard(releaseFn func()) *Guard {
	return &Guard{releaseFn: releaseFn}
}

// Release runs the action the first time it is called. Later calls, from
// any goroutine, are no-ops.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	if g.done.CompareAndSwap(false, true) && g.releaseFn != nil {
		g.releaseFn()
	}
}

// Released reports whether the guard has fired.
func (g *Guard) Released() bool {
	return g.done.Load()
}
