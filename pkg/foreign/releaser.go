package foreign

import "sync"

var (
	releaserMu   sync.RWMutex
	releaserFunc func(callback func())
)

// RegisterReleaser sets the function used to marshal release calls onto
// the single coordinator context the foreign core's thread-affinity
// assumption requires. The host platform registers this once during
// initialization, typically pointing at its main-context dispatcher.
//
// When no releaser is registered, release calls run synchronously on the
// calling goroutine.
func RegisterReleaser(fn func(callback func())) {
	releaserMu.Lock()
	releaserFunc = fn
	releaserMu.Unlock()
}

// release runs fn on the coordinator context when one is registered, and
// inline otherwise.
func release(fn func()) {
	releaserMu.RLock()
	marshal := releaserFunc
	releaserMu.RUnlock()
	if marshal == nil {
		fn()
		return
	}
	marshal(fn)
}
