package spring

import (
	"math"

	"github.com/san-kum/motion/internal/value"
)

const (
	// DefaultSubstep keeps semi-implicit Euler stable for stiff presets.
	DefaultSubstep     = 1.0 / 240.0
	DefaultMaxSubsteps = 64

	// VelocityToleranceFactor converts a position tolerance (units) into a
	// velocity tolerance (units per second).
	VelocityToleranceFactor = 10.0

	minRemaining = 1e-12
)

// Settings selects the integrator and substep policy.
type Settings struct {
	Substep     float64 `yaml:"substep" json:"substep"`
	MaxSubsteps int     `yaml:"max_substeps" json:"max_substeps"`
	Integrator  string  `yaml:"integrator" json:"integrator"`
}

func DefaultSettings() Settings {
	return Settings{
		Substep:     DefaultSubstep,
		MaxSubsteps: DefaultMaxSubsteps,
		Integrator:  MethodEuler,
	}
}

// Solver advances a spring by arbitrary frame intervals using fixed substeps.
type Solver[T value.Animatable[T]] struct {
	integrator  Integrator[T]
	substep     float64
	maxSubsteps int
}

// NewSolver builds a solver, filling zero settings with defaults.
func NewSolver[T value.Animatable[T]](s Settings) (*Solver[T], error) {
	integ, err := Lookup[T](s.Integrator)
	if err != nil {
		return nil, err
	}
	if s.Substep <= 0 || math.IsNaN(s.Substep) {
		s.Substep = DefaultSubstep
	}
	if s.MaxSubsteps <= 0 {
		s.MaxSubsteps = DefaultMaxSubsteps
	}
	return &Solver[T]{integrator: integ, substep: s.Substep, maxSubsteps: s.MaxSubsteps}, nil
}

// Advance integrates dt seconds in substeps no longer than the configured
// substep. At most MaxSubsteps are taken; time beyond that is dropped.
func (s *Solver[T]) Advance(x, v, target T, c Config, dt float64) (T, T, int) {
	remaining := dt
	steps := 0
	for remaining > minRemaining && steps < s.maxSubsteps {
		h := math.Min(remaining, s.substep)
		x, v = s.integrator.Step(x, v, target, c, h)
		remaining -= h
		steps++
	}
	return x, v, steps
}

// Tolerances returns the position and velocity tolerances for settling at
// target. scale multiplies the type's own epsilon.
func Tolerances[T value.Animatable[T]](target T, scale float64) (pos, vel float64) {
	if scale <= 0 {
		scale = 1
	}
	pos = target.Epsilon() * scale
	return pos, pos * VelocityToleranceFactor
}

// Settled reports whether every component is within tolerance of rest.
func Settled[T value.Animatable[T]](x, v, target T, posTol, velTol float64) bool {
	return value.Distance(x, target) < posTol && v.Magnitude() < velTol
}

// Energy is the kinetic plus potential energy of the spring relative to target.
func Energy[T value.Animatable[T]](x, v, target T, c Config) float64 {
	return 0.5*c.Mass*sumSquares(v.Components()) + 0.5*c.Stiffness*sumSquares(x.Sub(target).Components())
}

func sumSquares(c []float64) float64 {
	sum := 0.0
	for _, v := range c {
		sum += v * v
	}
	return sum
}
