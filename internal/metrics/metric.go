package metrics

import "math"

// Sample is one recorded frame of an animated value. Offset is value minus
// target, per component; Progress is the signed position along the run.
type Sample struct {
	Time     float64
	Progress float64
	Offset   []float64
	Velocity []float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

func maxAbs(c []float64) float64 {
	m := 0.0
	for _, v := range c {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

func sumSquares(c []float64) float64 {
	sum := 0.0
	for _, v := range c {
		sum += v * v
	}
	return sum
}
