package easing

import (
	"time"

	"github.com/san-kum/motion/internal/value"
)

// Tween is a duration-based animation curve.
type Tween struct {
	Duration time.Duration
	Easing   Func
}

// NewTween returns a tween with the given curve; nil means linear.
func NewTween(duration time.Duration, fn Func) Tween {
	if fn == nil {
		fn = Linear
	}
	return Tween{Duration: duration, Easing: fn}
}

// Progress is elapsed/duration clamped to [0, 1]. A non-positive duration is
// always complete.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(duration)
}

// Interpolate evaluates start + fn(progress)*(target-start) and reports
// whether the tween has reached its end.
func Interpolate[T value.Animatable[T]](start, target T, elapsed, duration time.Duration, fn Func) (T, bool) {
	if elapsed >= duration {
		return target, true
	}
	if fn == nil {
		fn = Linear
	}
	return value.Lerp(start, target, fn(Progress(elapsed, duration))), false
}
