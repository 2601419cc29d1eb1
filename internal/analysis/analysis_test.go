package analysis

import (
	"math"
	"strings"
	"testing"
)

// damped returns e^{-zeta*w*t} cos(wd*t) sampled every dt for n samples.
func damped(zeta, hz, dt float64, n int) (times, xs []float64) {
	w := 2 * math.Pi * hz
	wd := w * math.Sqrt(1-zeta*zeta)
	for i := range n {
		t := float64(i) * dt
		times = append(times, t)
		xs = append(xs, math.Exp(-zeta*w*t)*math.Cos(wd*t))
	}
	return times, xs
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		hz   float64
	}{
		{"slow", 1},
		{"fast", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, xs := damped(0.05, tt.hz, 1e-3, 4000)
			got := DominantFrequency(xs, 1e-3)
			if math.Abs(got-tt.hz) > 0.3 {
				t.Errorf("dominant frequency = %f, want ~%f", got, tt.hz)
			}
		})
	}
}

func TestSpectrumEdgeCases(t *testing.T) {
	if f, p := Spectrum([]float64{1}, 0.01); f != nil || p != nil {
		t.Error("single sample should have no spectrum")
	}
	if got := DominantFrequency([]float64{3, 3, 3, 3}, 0.01); got != 0 {
		t.Errorf("flat signal frequency = %f", got)
	}
	freqs, power := Spectrum([]float64{0, 1, 0, -1, 0, 1, 0, -1}, 0.25)
	if len(freqs) != 5 || len(power) != 5 {
		t.Fatalf("bins = %d", len(freqs))
	}
	if freqs[2] != 1 {
		t.Errorf("bin 2 = %f Hz", freqs[2])
	}
}

func TestDampingRatio(t *testing.T) {
	for _, zeta := range []float64{0.05, 0.2, 0.4} {
		_, xs := damped(zeta, 2, 1e-4, 30000)
		got, ok := DampingRatio(xs)
		if !ok {
			t.Fatalf("zeta %f: no estimate", zeta)
		}
		if math.Abs(got-zeta) > 0.01 {
			t.Errorf("zeta %f: estimated %f", zeta, got)
		}
	}

	if _, ok := DampingRatio([]float64{1, 0.5, 0.25, 0}); ok {
		t.Error("monotonic decay has no oscillation")
	}
}

func TestCrossings(t *testing.T) {
	got := Crossings([]float64{0, 1, 2, 3, 4}, []float64{1, -1, -1, 0, 1})
	want := []float64{0.5, 3}
	if len(got) != len(want) {
		t.Fatalf("crossings = %v", got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("crossing %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestPhasePortrait(t *testing.T) {
	_, xs := damped(0.1, 1, 0.01, 300)
	vs := make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		vs[i] = (xs[i] - xs[i-1]) / 0.01
	}

	out := PhasePortrait(xs, vs, 40, 12)
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(rows) != 12 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") {
		t.Error("expected points and a y axis")
	}
	if PhasePortrait(nil, nil, 10, 10) != "" {
		t.Error("empty input should render nothing")
	}
}
