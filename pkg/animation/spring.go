package animation

import "math"

// springRestDelta is how close position and velocity must be to the target
// before the simulation is considered settled.
const springRestDelta = 1e-3

// SpringSimulation integrates damped spring motion toward a target.
//
// Unlike the duration-based curves, a spring has no fixed end time; it runs
// until position and velocity settle within a small tolerance of the target.
// Retargeting a spring keeps its current position and velocity, so motion
// stays continuous.
type SpringSimulation struct {
	stiffness float64
	damping   float64
	position  float64
	velocity  float64
	target    float64
}

// NewSpringSimulation creates a spring at the given position heading toward
// target. Stiffness and damping must be positive; non-positive values are
// replaced with gentle defaults.
func NewSpringSimulation(stiffness, damping, position, velocity, target float64) *SpringSimulation {
	if stiffness <= 0 {
		stiffness = 170
	}
	if damping <= 0 {
		damping = 26
	}
	return &SpringSimulation{
		stiffness: stiffness,
		damping:   damping,
		position:  position,
		velocity:  velocity,
		target:    target,
	}
}

// Step advances the simulation by dt using semi-implicit Euler integration.
// Large steps are subdivided to keep the integration stable.
func (s *SpringSimulation) Step(dt float64) {
	const maxStep = 1.0 / 120.0
	for dt > 0 {
		h := dt
		if h > maxStep {
			h = maxStep
		}
		accel := s.stiffness*(s.target-s.position) - s.damping*s.velocity
		s.velocity += accel * h
		s.position += s.velocity * h
		dt -= h
	}
}

// Position returns the current position.
func (s *SpringSimulation) Position() float64 {
	return s.position
}

// Velocity returns the current velocity.
func (s *SpringSimulation) Velocity() float64 {
	return s.velocity
}

// Retarget redirects the spring toward a new target, keeping the current
// position and velocity.
func (s *SpringSimulation) Retarget(target float64) {
	s.target = target
}

// Done reports whether the spring has settled on its target. When Done
// returns true, Position is snapped exactly onto the target.
func (s *SpringSimulation) Done() bool {
	if math.Abs(s.position-s.target) < springRestDelta && math.Abs(s.velocity) < springRestDelta {
		s.position = s.target
		s.velocity = 0
		return true
	}
	return false
}
