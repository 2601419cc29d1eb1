package spring

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/motion/internal/value"
)

// Integrator advances position x and velocity v toward target by dt seconds.
type Integrator[T value.Animatable[T]] interface {
	Name() string
	Step(x, v, target T, c Config, dt float64) (T, T)
}

const (
	MethodEuler    = "euler"
	MethodVerlet   = "verlet"
	MethodAnalytic = "analytic"
)

// Methods lists the registered integrator names.
func Methods() []string {
	return []string{MethodEuler, MethodVerlet, MethodAnalytic}
}

// Lookup returns the integrator registered under name. An empty name selects
// semi-implicit Euler.
func Lookup[T value.Animatable[T]](name string) (Integrator[T], error) {
	switch name {
	case "", MethodEuler:
		return SemiImplicitEuler[T]{}, nil
	case MethodVerlet:
		return Verlet[T]{}, nil
	case MethodAnalytic:
		return Analytic[T]{}, nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func acceleration[T value.Animatable[T]](x, v, target T, c Config) T {
	force := target.Sub(x).Scale(c.Stiffness)
	damping := v.Scale(-c.Damping)
	return force.Add(damping).Scale(1 / c.Mass)
}

// SemiImplicitEuler updates velocity first and then moves with the new
// velocity, which keeps an undamped spring's energy bounded.
type SemiImplicitEuler[T value.Animatable[T]] struct{}

func (SemiImplicitEuler[T]) Name() string { return MethodEuler }

func (SemiImplicitEuler[T]) Step(x, v, target T, c Config, dt float64) (T, T) {
	a := acceleration(x, v, target, c)
	v = v.Add(a.Scale(dt))
	x = x.Add(v.Scale(dt))
	return x, v
}

// Verlet is velocity Verlet with a predicted velocity for the damping term.
type Verlet[T value.Animatable[T]] struct{}

func (Verlet[T]) Name() string { return MethodVerlet }

func (Verlet[T]) Step(x, v, target T, c Config, dt float64) (T, T) {
	a0 := acceleration(x, v, target, c)
	x1 := x.Add(v.Scale(dt)).Add(a0.Scale(0.5 * dt * dt))
	vPred := v.Add(a0.Scale(dt))
	a1 := acceleration(x1, vPred, target, c)
	v1 := v.Add(a0.Add(a1).Scale(0.5 * dt))
	return x1, v1
}

// Analytic uses the closed-form damped oscillator from harmonica. The update is
// linear in (x - target) and v, so the scalar coefficients harmonica computes
// apply to every component of T.
type Analytic[T value.Animatable[T]] struct{}

func (Analytic[T]) Name() string { return MethodAnalytic }

func (Analytic[T]) Step(x, v, target T, c Config, dt float64) (T, T) {
	s := harmonica.NewSpring(dt, c.NaturalFrequency(), c.DampingRatio())
	posPos, velPos := s.Update(1, 0, 0)
	posVel, velVel := s.Update(0, 1, 0)

	offset := x.Sub(target)
	newX := target.Add(offset.Scale(posPos)).Add(v.Scale(posVel))
	newV := offset.Scale(velPos).Add(v.Scale(velVel))
	return newX, newV
}
