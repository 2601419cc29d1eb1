package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/motion/internal/spring"
)

func TestSettleTime(t *testing.T) {
	m := NewSettleTime(0.01)
	offsets := []float64{-1, -0.5, 0.005, 0.02, 0.001, 0}
	for i, off := range offsets {
		m.Observe(Sample{Time: float64(i), Offset: []float64{off}})
	}
	if got := m.Value(); got != 4 {
		t.Errorf("expected settle at t=4, got %v", got)
	}

	m.Reset()
	m.Observe(Sample{Time: 0, Offset: []float64{1}})
	if got := m.Value(); got != -1 {
		t.Errorf("expected -1 for an unsettled trace, got %v", got)
	}
}

func TestOvershoot(t *testing.T) {
	m := NewOvershoot()
	for _, p := range []float64{0, 0.5, 1.08, 0.97, 1.02, 1} {
		m.Observe(Sample{Progress: p})
	}
	if got := m.Value(); math.Abs(got-0.08) > 1e-12 {
		t.Errorf("expected 0.08, got %v", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestTickCountAndPeakVelocity(t *testing.T) {
	ticks := NewTickCount()
	peak := NewPeakVelocity()
	for _, v := range []float64{1, -7, 3} {
		s := Sample{Velocity: []float64{v, 0.5}}
		ticks.Observe(s)
		peak.Observe(s)
	}
	if ticks.Value() != 3 {
		t.Errorf("ticks = %v", ticks.Value())
	}
	if peak.Value() != 7 {
		t.Errorf("peak velocity = %v", peak.Value())
	}
}

func TestEnergy(t *testing.T) {
	cfg := spring.Config{Stiffness: 100, Damping: 10, Mass: 2}
	m := NewEnergy(cfg)

	m.Observe(Sample{Offset: []float64{-1}, Velocity: []float64{3}})
	expected := 0.5*2*9 + 0.5*100*1
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	cfg := spring.Default()
	tests := []struct {
		name    string
		offsets []float64
		want    float64
	}{
		{"decaying", []float64{-1, -0.5, 0.1, 0}, 0},
		{"gaining", []float64{-1, -1.1, -0.5}, 0.21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyDrift(cfg)
			for _, off := range tt.offsets {
				m.Observe(Sample{Offset: []float64{off}, Velocity: []float64{0}})
			}
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("drift = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}
