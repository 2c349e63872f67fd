// Package animation carries interpolation metadata across the bridge and
// drives the stateful interpolators that animate native widget properties.
//
// # Core Components
//
//   - [Metadata]: the optional interpolation descriptor attached to every
//     value-change notification that crosses the bridge. A zero Metadata
//     means "apply immediately".
//
//   - [Interpolator]: a stateful per-property animator. Retargeting an
//     in-flight interpolator continues from its current value, never from
//     the original start, so a redirected animation shows no visual jump.
//
//   - [Animator]: the per-widget collection of interpolators, keyed by
//     property name. Register Animator.CancelAll into the widget's disposal
//     chain so teardown cancels in-flight animations instead of abandoning
//     them.
//
//   - [Tween]: maps interpolator progress to non-float values (colors,
//     insets, offsets) via a Lerp function.
//
// Interpolators are driven by [Ticker] and [StepTickers], with time coming
// from a swappable [Clock] so tests can advance animations deterministically.
package animation

import (
	"fmt"
	"time"
)

// Kind identifies the interpolation family of a value change.
type Kind int

const (
	// KindNone applies the value immediately with no interpolation.
	KindNone Kind = iota
	// KindLinear interpolates linearly over Duration.
	KindLinear
	// KindEaseIn starts slowly and accelerates over Duration.
	KindEaseIn
	// KindEaseOut starts quickly and decelerates over Duration.
	KindEaseOut
	// KindEaseInOut eases on both ends over Duration.
	KindEaseInOut
	// KindSpring runs a physical spring simulation parameterized by
	// Stiffness and Damping. Duration is ignored.
	KindSpring
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLinear:
		return "linear"
	case KindEaseIn:
		return "ease-in"
	case KindEaseOut:
		return "ease-out"
	case KindEaseInOut:
		return "ease-in-out"
	case KindSpring:
		return "spring"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Metadata describes how a value change should be interpolated. It rides
// alongside the value in every observation notification; the two are never
// delivered on separate channels.
//
// The zero value is KindNone: apply synchronously, no interpolator.
type Metadata struct {
	// Kind selects the interpolation family.
	Kind Kind
	// Duration applies to the duration-based kinds (linear, ease-*).
	Duration time.Duration
	// Stiffness is the spring constant for KindSpring.
	Stiffness float64
	// Damping is the damping coefficient for KindSpring.
	Damping float64
}

// Immediate returns metadata that applies the value with no interpolation.
func Immediate() Metadata {
	return Metadata{Kind: KindNone}
}

// Curved returns duration-based metadata for one of the curve kinds.
func Curved(kind Kind, duration time.Duration) Metadata {
	return Metadata{Kind: kind, Duration: duration}
}

// Spring returns spring metadata with the given physical parameters.
func Spring(stiffness, damping float64) Metadata {
	return Metadata{Kind: KindSpring, Stiffness: stiffness, Damping: damping}
}

// IsNone reports whether the metadata requests immediate application.
func (m Metadata) IsNone() bool {
	return m.Kind == KindNone
}

// Curve returns the easing function for the duration-based kinds.
// Spring and none have no curve; kind spring is integrated, not eased.
func (m Metadata) Curve() func(float64) float64 {
	switch m.Kind {
	case KindLinear:
		return LinearCurve
	case KindEaseIn:
		return EaseIn
	case KindEaseOut:
		return EaseOut
	case KindEaseInOut:
		return EaseInOut
	default:
		return nil
	}
}
