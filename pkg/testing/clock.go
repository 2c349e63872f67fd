// Package testing provides the fake foreign core, fake widgets, and clock
// used to test the bridge without a real reactive core or native toolkit.
package testing

import (
	"sync/atomic"
	"time"
)

// FakeClock is a manually advanced time source for interpolator tests.
// It hands out a fixed base time plus an offset, so advancing is a single
// atomic add and Now never blocks a ticking goroutine.
type FakeClock struct {
	base   time.Time
	offset atomic.Int64
}

// NewFakeClock returns a FakeClock at a fixed starting instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	return c.base.Add(time.Duration(c.offset.Load()))
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.offset.Add(int64(d))
}

// Elapsed returns how far the clock has been advanced in total.
func (c *FakeClock) Elapsed() time.Duration {
	return time.Duration(c.offset.Load())
}
