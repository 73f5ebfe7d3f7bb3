// Package integrator provides the adaptive ODE engine driving the power
// simulation: an embedded Dormand-Prince 4(5) pair with per-state tolerances
// and step-size control, evaluated on a caller-provided output grid.
package integrator

// Integrable defines something which can be integrated, i.e. has a state
// vector.
// WARNING: Implementation must manage its own state between grid points.
type Integrable interface {
	GetState() []float64                   // Get the latest state of this integrable.
	SetState(t float64, s []float64)       // Set the state s reached at grid time t.
	Func(t float64, s []float64) []float64 // ODE function from time t and state s, must return the state derivative.
}
