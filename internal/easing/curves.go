// Package easing maps normalized progress to eased progress for duration-based
// animations.
//
// Each curve takes t in [0, 1] and returns a value that starts at 0 and ends
// at 1. Most curves stay within [0, 1]; [BackOut] deliberately overshoots.
// Use [CubicBezier] for CSS-style custom curves and [Lookup] to resolve curves
// by name from configuration files.
package easing

import (
	"fmt"
	"math"
	"sort"
)

// Func transforms linear progress into eased progress.
type Func func(t float64) float64

func Linear(t float64) float64 { return t }

func QuadIn(t float64) float64  { return t * t }
func QuadOut(t float64) float64 { return 1 - (1-t)*(1-t) }
func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func CubicIn(t float64) float64  { return t * t * t }
func CubicOut(t float64) float64 { return 1 - math.Pow(1-t, 3) }
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func QuartIn(t float64) float64  { return t * t * t * t }
func QuartOut(t float64) float64 { return 1 - math.Pow(1-t, 4) }

func SineIn(t float64) float64    { return 1 - math.Cos(t*math.Pi/2) }
func SineOut(t float64) float64   { return math.Sin(t * math.Pi / 2) }
func SineInOut(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

func ExpoIn(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func ExpoOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// BackOut overshoots the target by about 10% before settling.
func BackOut(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// CSS keyword curves.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)
)

// CubicBezier returns a curve matching CSS cubic-bezier(x1, y1, x2, y2).
func CubicBezier(x1, y1, x2, y2 float64) Func {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton failed to converge; bisect.
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 20 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}
		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var registry = map[string]Func{
	"linear":       Linear,
	"ease":         Ease,
	"ease-in":      EaseIn,
	"ease-out":     EaseOut,
	"ease-in-out":  EaseInOut,
	"quad-in":      QuadIn,
	"quad-out":     QuadOut,
	"quad-in-out":  QuadInOut,
	"cubic-in":     CubicIn,
	"cubic-out":    CubicOut,
	"cubic-in-out": CubicInOut,
	"quart-in":     QuartIn,
	"quart-out":    QuartOut,
	"sine-in":      SineIn,
	"sine-out":     SineOut,
	"sine-in-out":  SineInOut,
	"expo-in":      ExpoIn,
	"expo-out":     ExpoOut,
	"back-out":     BackOut,
}

// Lookup resolves a curve by name. The empty name is linear.
func Lookup(name string) (Func, error) {
	if name == "" {
		return Linear, nil
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %s", name)
	}
	return fn, nil
}

// Names lists the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
