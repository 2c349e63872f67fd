package animation

import (
	"sync"
	"time"
)

// Interpolator animates a single widget property toward a target value.
//
// An Interpolator is created the first time a property receives a change
// with non-none [Metadata] and lives for the rest of the widget's life,
// keyed by (widget, property) in an [Animator]. Retargeting mid-flight
// continues from the interpolator's current value, not the original start,
// so redirected animations never jump.
//
// The apply callback is invoked on every tick with the new value, and runs
// on whatever context calls [StepTickers] (the platform frame loop).
// Cancel is safe to call from any goroutine, concurrently with ticks.
type Interpolator struct {
	mu          sync.Mutex
	value       float64
	start       float64
	target      float64
	meta        Metadata
	curve       func(float64) float64
	spring      *SpringSimulation
	ticker      *Ticker
	lastElapsed time.Duration
	canceled    bool
	apply       func(float64)

	// tween holds the active typed tween when driven via AnimateTween,
	// so the next retarget can rebase from the evaluated value.
	tween any
}

// NewInterpolator creates an interpolator resting at the initial value.
// apply receives every interpolated value, including immediate ones.
func NewInterpolator(initial float64, apply func(float64)) *Interpolator {
	return &Interpolator{
		value:  initial,
		target: initial,
		apply:  apply,
	}
}

// Value returns the current interpolated value.
func (p *Interpolator) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Target returns the value the interpolator is heading toward.
func (p *Interpolator) Target() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// IsAnimating reports whether the interpolator is mid-flight.
func (p *Interpolator) IsAnimating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil && p.ticker.IsActive()
}

// Retarget redirects the interpolator toward target according to meta.
//
// KindNone applies target synchronously with no interpolation. The curve
// kinds restart from the current value over meta.Duration. KindSpring
// keeps the current position and velocity when a spring is already
// running, so gesture-style redirects stay continuous.
//
// Retarget after Cancel is a no-op; the owning widget is being torn down.
func (p *Interpolator) Retarget(target float64, meta Metadata) {
	p.mu.Lock()
	if p.canceled {
		p.mu.Unlock()
		return
	}

	if meta.IsNone() {
		p.stopLocked()
		p.value = target
		p.target = target
		p.spring = nil
		apply := p.apply
		p.mu.Unlock()
		if apply != nil {
			apply(target)
		}
		return
	}

	p.target = target
	p.meta = meta

	if meta.Kind == KindSpring {
		if p.spring != nil {
			p.spring.Retarget(target)
		} else {
			p.spring = NewSpringSimulation(meta.Stiffness, meta.Damping, p.value, 0, target)
		}
	} else {
		p.spring = nil
		p.start = p.value
		p.curve = meta.Curve()
	}

	p.stopLocked()
	p.lastElapsed = 0
	ticker := NewTicker(p.tick)
	p.ticker = ticker
	p.mu.Unlock()
	ticker.Start()

	// A Cancel (or another Retarget) landing between the unlock and Start
	// finds nothing to stop yet; re-check so the ticker it meant to kill
	// does not stay registered.
	p.mu.Lock()
	if p.canceled || p.ticker != ticker {
		ticker.Stop()
	}
	p.mu.Unlock()
}

// Cancel stops the interpolator at its current value. Idempotent and safe
// to call concurrently with an in-flight tick; a tick racing Cancel either
// completes with the pre-cancel value or is dropped.
func (p *Interpolator) Cancel() {
	p.mu.Lock()
	p.canceled = true
	p.stopLocked()
	p.mu.Unlock()
}

func (p *Interpolator) stopLocked() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

func (p *Interpolator) tick(elapsed time.Duration) {
	p.mu.Lock()
	if p.canceled || p.ticker == nil {
		p.mu.Unlock()
		return
	}

	var done bool
	if p.spring != nil {
		dt := (elapsed - p.lastElapsed).Seconds()
		p.lastElapsed = elapsed
		if dt > 0 {
			p.spring.Step(dt)
		}
		p.value = p.spring.Position()
		if p.spring.Done() {
			p.value = p.target
			done = true
		}
	} else {
		if p.meta.Duration <= 0 {
			p.value = p.target
			done = true
		} else {
			progress := float64(elapsed) / float64(p.meta.Duration)
			if progress >= 1 {
				progress = 1
				done = true
			}
			eased := progress
			if p.curve != nil {
				eased = p.curve(progress)
			}
			p.value = p.start + (p.target-p.start)*eased
			if done {
				p.value = p.target
			}
		}
	}

	if done {
		p.stopLocked()
		p.spring = nil
	}
	value := p.value
	apply := p.apply
	p.mu.Unlock()

	if apply != nil {
		apply(value)
	}
}
