package metrics

import (
	"math"

	"github.com/san-kum/motion/internal/spring"
)

// Energy is the mean spring energy over the observed samples.
type Energy struct {
	name        string
	cfg         spring.Config
	samples     int
	totalEnergy float64
}

func NewEnergy(cfg spring.Config) *Energy {
	return &Energy{
		name: "energy",
		cfg:  cfg,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s Sample) {
	e.totalEnergy += springEnergy(e.cfg, s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest energy gain relative to the first sample. A
// damped spring only loses energy, so anything above zero is integrator
// error.
type EnergyDrift struct {
	name          string
	cfg           spring.Config
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(cfg spring.Config) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		cfg:  cfg,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s Sample) {
	energy := springEnergy(e.cfg, s)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := (energy - e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func springEnergy(c spring.Config, s Sample) float64 {
	return 0.5*c.Mass*sumSquares(s.Velocity) + 0.5*c.Stiffness*sumSquares(s.Offset)
}
