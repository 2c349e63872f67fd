package animation

import (
	"sync/atomic"
	"time"
)

// Clock is the time source tickers and interpolators read. Production
// code uses system time; tests install a controllable clock through
// SetClock (see the testing package's FakeClock).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// clock holds the active time source. Swaps are atomic so installing a
// fake clock is safe even while tickers are reading it.
var clock atomic.Pointer[Clock]

func init() {
	var c Clock = systemClock{}
	clock.Store(&c)
}

// SetClock installs a time source and returns the previous one so callers
// can restore it during cleanup. A nil clock restores system time.
func SetClock(c Clock) Clock {
	if c == nil {
		c = systemClock{}
	}
	prev := clock.Swap(&c)
	return *prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return (*clock.Load()).Now() }
