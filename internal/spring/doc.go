// Package spring integrates a damped harmonic oscillator toward a target.
//
// The force model is
//
//	a = (-stiffness*(x - target) - damping*v) / mass
//
// and a [Solver] advances it in fixed substeps so that large or irregular frame
// intervals do not destabilize the integration. Three integrators are available
// through [Lookup]:
//
//   - "euler": semi-implicit (symplectic) Euler, the default
//   - "verlet": velocity Verlet
//   - "analytic": closed-form oscillator from charmbracelet/harmonica
//
// All integrators work on any [value.Animatable].
package spring
