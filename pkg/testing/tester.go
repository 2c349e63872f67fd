package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/go-drift/viewbridge/pkg/animation"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// Tester wires the bridge's global seams (animation clock, UI dispatcher)
// to deterministic fakes for one test. Dispatched callbacks queue until
// Flush, modeling a UI thread the test controls; Pump advances the fake
// clock frame by frame and steps active tickers.
type Tester struct {
	// Clock is the fake animation clock.
	Clock *FakeClock

	mu        sync.Mutex
	queue     []func()
	prevClock animation.Clock
}

// NewTester installs the fakes and registers cleanup with t.
func NewTester(t *testing.T) *Tester {
	tester := &Tester{Clock: NewFakeClock()}
	tester.prevClock = animation.SetClock(tester.Clock)
	toolkit.RegisterDispatch(tester.enqueue)
	t.Cleanup(func() {
		toolkit.RegisterDispatch(nil)
		animation.SetClock(tester.prevClock)
	})
	return tester
}

func (t *Tester) enqueue(fn func()) {
	t.mu.Lock()
	t.queue = append(t.queue, fn)
	t.mu.Unlock()
}

// Flush runs every queued dispatch in order, including ones queued while
// flushing.
func (t *Tester) Flush() {
	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.mu.Unlock()
			return
		}
		fn := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()
		fn()
	}
}

// Pending returns the number of queued dispatches.
func (t *Tester) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Pump advances the clock by d in the given number of frames, stepping
// active tickers and flushing dispatches after each frame.
func (t *Tester) Pump(d time.Duration, frames int) {
	if frames < 1 {
		frames = 1
	}
	step := d / time.Duration(frames)
	for n := 0; n < frames; n++ {
		t.Clock.Advance(step)
		animation.StepTickers()
		t.Flush()
	}
}
