package toolkit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposalChain_RunsInRegistrationOrder(t *testing.T) {
	var chain DisposalChain
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		chain.Add(func() { order = append(order, i) })
	}

	chain.Dispose()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDisposalChain_DisposeIsIdempotent(t *testing.T) {
	var chain DisposalChain
	count := 0
	chain.Add(func() { count++ })

	chain.Dispose()
	chain.Dispose()
	chain.Dispose()

	assert.Equal(t, 1, count)
	assert.True(t, chain.Disposed())
	assert.Equal(t, 0, chain.Len())
}

func TestDisposalChain_LateAddRunsImmediately(t *testing.T) {
	var chain DisposalChain
	chain.Dispose()

	ran := false
	chain.Add(func() { ran = true })
	assert.True(t, ran, "actions added after disposal run at once")
}

func TestDisposalChain_ConcurrentDispose(t *testing.T) {
	var chain DisposalChain
	count := 0
	var countMu sync.Mutex
	for n := 0; n < 10; n++ {
		chain.Add(func() {
			countMu.Lock()
			count++
			countMu.Unlock()
		})
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chain.Dispose()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, count)
}

type releaseCounter struct{ n int }

func (r *releaseCounter) Release() { r.n++ }

func TestDisposalChain_AddReleasable(t *testing.T) {
	var chain DisposalChain
	counter := &releaseCounter{}
	chain.AddReleasable(counter)
	chain.AddReleasable(nil)

	chain.Dispose()
	assert.Equal(t, 1, counter.n)
}

func TestWidgetBase_LifecycleDedupsRedundantSignals(t *testing.T) {
	var w WidgetBase
	var events []LifecycleEvent
	remove := w.OnLifecycle(func(e LifecycleEvent) { events = append(events, e) })

	w.NotifyDetached() // not attached yet, ignored
	w.NotifyAttached()
	w.NotifyAttached() // redundant, ignored
	w.NotifyDetached()
	w.NotifyAttached()

	assert.Equal(t, []LifecycleEvent{Attached, Detached, Attached}, events)
	assert.True(t, w.IsAttached())

	remove()
	remove()
	w.NotifyDetached()
	assert.Len(t, events, 3, "removed handler no longer fires")
}

func TestWidgetBase_DestroyDetachesThenDisposes(t *testing.T) {
	var w WidgetBase
	var order []string
	w.OnLifecycle(func(e LifecycleEvent) { order = append(order, e.String()) })
	w.Disposal().Add(func() { order = append(order, "disposed") })

	w.NotifyAttached()
	w.Destroy()
	w.Destroy()

	assert.Equal(t, []string{"attached", "detached", "disposed"}, order)
	assert.False(t, w.IsAttached())
}

func TestWidgetBase_Sizing(t *testing.T) {
	var w WidgetBase
	assert.Equal(t, Sizing{}, w.Sizing())

	w.SetSizing(Sizing{GrowH: true})
	assert.Equal(t, Sizing{GrowH: true}, w.Sizing())
}

func TestDispatch(t *testing.T) {
	assert.False(t, Dispatch(func() {}), "no dispatcher registered")

	var ran bool
	RegisterDispatch(func(cb func()) { cb() })
	defer RegisterDispatch(nil)

	assert.False(t, Dispatch(nil))
	assert.True(t, Dispatch(func() { ran = true }))
	assert.True(t, ran)
}
