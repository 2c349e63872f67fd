package animation

import "sync"

// Animator owns the interpolators for one widget instance, keyed by
// property name. Each widget that animates anything holds exactly one
// Animator and registers [Animator.CancelAll] into its disposal chain, so
// teardown cancels in-flight animations instead of abandoning them.
type Animator struct {
	mu       sync.Mutex
	props    map[string]*Interpolator
	canceled bool
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{props: make(map[string]*Interpolator)}
}

// Prime creates the property's interpolator at rest on an initial value,
// so the first animated change starts from the rendered state instead of
// zero. No-op when the property already has an interpolator.
func (a *Animator) Prime(prop string, initial float64, apply func(float64)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.canceled {
		return
	}
	if _, ok := a.props[prop]; !ok {
		a.props[prop] = NewInterpolator(initial, apply)
	}
}

// Animate routes a (value, metadata) change to the property's interpolator,
// creating it on first use. With none metadata and no existing interpolator
// the value is applied synchronously, with zero interpolator overhead.
//
// An interpolator created here starts at zero, so a property's first
// animated change sweeps from 0 to target. Renderers that animate a
// property should Prime it with the initially rendered value, so the first
// animated change continues from the on-screen state.
//
// apply is captured on first use per property; later calls for the same
// property reuse the original callback.
func (a *Animator) Animate(prop string, target float64, meta Metadata, apply func(float64)) {
	a.mu.Lock()
	if a.canceled {
		a.mu.Unlock()
		return
	}
	interp, ok := a.props[prop]
	if !ok {
		if meta.IsNone() {
			a.mu.Unlock()
			if apply != nil {
				apply(target)
			}
			return
		}
		interp = NewInterpolator(0, apply)
		a.props[prop] = interp
	}
	a.mu.Unlock()
	interp.Retarget(target, meta)
}

// Interpolator returns the interpolator for a property, or nil if the
// property has never animated.
func (a *Animator) Interpolator(prop string) *Interpolator {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.props[prop]
}

// CancelAll cancels every interpolator. Safe to call more than once and
// concurrently with in-flight notifications; later Animate calls become
// no-ops.
func (a *Animator) CancelAll() {
	a.mu.Lock()
	a.canceled = true
	interps := make([]*Interpolator, 0, len(a.props))
	for _, interp := range a.props {
		interps = append(interps, interp)
	}
	a.mu.Unlock()

	for _, interp := range interps {
		interp.Cancel()
	}
}

// AnimateTween drives a typed property through an animator using a tween.
// The interpolator runs in progress space (0 to 1 per retarget leg); the
// tween's Begin is rebased to the current evaluated value on each change,
// matching the no-jump retarget rule for non-float properties.
func AnimateTween[T any](a *Animator, prop string, tween *Tween[T], meta Metadata, apply func(T)) {
	a.mu.Lock()
	if a.canceled {
		a.mu.Unlock()
		return
	}
	interp, ok := a.props[prop]
	if !ok {
		interp = NewInterpolator(0, nil)
		a.props[prop] = interp
	}
	a.mu.Unlock()

	// Rebase from the current in-flight value before redirecting.
	interp.mu.Lock()
	if prev, ok := interp.tween.(*Tween[T]); ok {
		tween.Begin = prev.Evaluate(interp.value)
	}
	interp.tween = tween
	interp.apply = func(t float64) {
		apply(tween.Evaluate(t))
	}
	interp.value = 0
	interp.mu.Unlock()

	interp.Retarget(1, meta)
}
