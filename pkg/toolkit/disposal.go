// Package toolkit defines the surface a host widget toolkit plugs into
// the bridge: the [Widget] contract, the per-widget [DisposalChain], the
// attach/detach lifecycle signal, and the UI-affinity dispatcher.
package toolkit

import "sync"

// Releasable is anything with an exactly-once Release, such as a
// foreign.Guard or an observe.Watcher.
type Releasable interface {
	Release()
}

// DisposalChain is the ordered release list owned by exactly one widget
// instance. Actions accumulate at construction time in registration order
// and run in full, exactly once, when the platform signals teardown.
//
// Some platform teardown paths signal more than once; the chain gates
// itself, and every registered action is expected to tolerate repeated
// invocation as well.
type DisposalChain struct {
	mu       sync.Mutex
	actions  []func()
	disposed bool
}

// Add registers a release action. Adding to an already disposed chain
// runs the action immediately, so late acquisitions cannot leak.
func (c *DisposalChain) Add(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		fn()
		return
	}
	c.actions = append(c.actions, fn)
	c.mu.Unlock()
}

// AddAll registers a batch of release actions in order.
func (c *DisposalChain) AddAll(fns []func()) {
	for _, fn := range fns {
		c.Add(fn)
	}
}

// AddReleasable registers a Releasable's release.
func (c *DisposalChain) AddReleasable(r Releasable) {
	if r == nil {
		return
	}
	c.Add(r.Release)
}

// Dispose runs every registered action in registration order, once.
// Repeated Dispose calls are no-ops.
func (c *DisposalChain) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	actions := c.actions
	c.actions = nil
	c.mu.Unlock()

	for _, fn := range actions {
		fn()
	}
}

// Disposed reports whether the chain has run.
func (c *DisposalChain) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Len returns the number of pending release actions.
func (c *DisposalChain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions)
}
