package value

import "math"

const floatEpsilon = 1e-3

// Float is an animatable scalar.
type Float float64

func (f Float) Add(other Float) Float      { return f + other }
func (f Float) Sub(other Float) Float      { return f - other }
func (f Float) Scale(factor float64) Float { return Float(float64(f) * factor) }
func (f Float) Magnitude() float64         { return math.Abs(float64(f)) }
func (f Float) Components() []float64      { return []float64{float64(f)} }
func (f Float) IsValid() bool              { return finite(float64(f)) }
func (f Float) Epsilon() float64           { return scaledEpsilon(floatEpsilon, f.Magnitude()) }

// Vec2 is an animatable 2D point.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2           { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2           { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(factor float64) Vec2 { return Vec2{v.X * factor, v.Y * factor} }
func (v Vec2) Magnitude() float64        { return maxAbs(v.X, v.Y) }
func (v Vec2) Components() []float64     { return []float64{v.X, v.Y} }
func (v Vec2) IsValid() bool             { return finite(v.X, v.Y) }
func (v Vec2) Epsilon() float64          { return scaledEpsilon(floatEpsilon, v.Magnitude()) }

// Vec is a dynamic-dimension vector. Operations on vectors of different length
// treat the missing components as zero.
type Vec []float64

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) Add(other Vec) Vec {
	result := make(Vec, max(len(v), len(other)))
	for i := range result {
		result[i] = v.at(i) + other.at(i)
	}
	return result
}

func (v Vec) Sub(other Vec) Vec {
	result := make(Vec, max(len(v), len(other)))
	for i := range result {
		result[i] = v.at(i) - other.at(i)
	}
	return result
}

func (v Vec) Scale(factor float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

func (v Vec) Magnitude() float64    { return maxAbs(v...) }
func (v Vec) Components() []float64 { return v.Clone() }
func (v Vec) IsValid() bool         { return finite(v...) }
func (v Vec) Epsilon() float64      { return scaledEpsilon(floatEpsilon, v.Magnitude()) }

func (v Vec) at(i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
