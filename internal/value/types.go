package value

import "math"

// Animatable is the vector-space capability set shared by every animated type.
// Implementations are value types; methods never mutate the receiver.
type Animatable[T any] interface {
	Add(other T) T
	Sub(other T) T
	Scale(factor float64) T
	// Magnitude is the largest absolute component (infinity norm).
	Magnitude() float64
	Components() []float64
	IsValid() bool
	// Epsilon is the settle tolerance for values near this one.
	Epsilon() float64
}

// Clamper is implemented by types whose displayed value has a bounded range.
type Clamper[T any] interface {
	Clamp() T
}

// Zero returns the additive identity of T.
func Zero[T Animatable[T]]() T {
	var z T
	return z
}

// Distance is the infinity-norm distance between a and b.
func Distance[T Animatable[T]](a, b T) float64 {
	return a.Sub(b).Magnitude()
}

// Lerp returns a + (b-a)*t.
func Lerp[T Animatable[T]](a, b T, t float64) T {
	return a.Add(b.Sub(a).Scale(t))
}

// Progress projects current onto the start->target segment. 0 is the start,
// 1 the target; values above 1 mean overshoot.
func Progress[T Animatable[T]](start, current, target T) float64 {
	span := target.Sub(start).Components()
	moved := current.Sub(start).Components()
	var dot, norm float64
	for i, d := range span {
		if i < len(moved) {
			dot += moved[i] * d
		}
		norm += d * d
	}
	if norm == 0 {
		return 1
	}
	return dot / norm
}

// Direction returns the unit vector pointing from a to b, or zero when a == b.
func Direction[T Animatable[T]](a, b T) T {
	diff := b.Sub(a)
	n := euclidean(diff.Components())
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Zero[T]()
	}
	return diff.Scale(1 / n)
}

func euclidean(c []float64) float64 {
	sum := 0.0
	for _, v := range c {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func maxAbs(c ...float64) float64 {
	m := 0.0
	for _, v := range c {
		if a := math.Abs(v); a > m || math.IsNaN(a) {
			m = a
		}
	}
	return m
}

func finite(c ...float64) bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// scaledEpsilon grows the base tolerance with the value's magnitude so large
// values settle on a relative rather than absolute criterion.
func scaledEpsilon(base, magnitude float64) float64 {
	return base * math.Max(1, magnitude)
}
