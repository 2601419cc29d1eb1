package viz

import (
	"math"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/value"
)

// Frame is one sampled state of an animation, flattened to components.
type Frame struct {
	Values   []float64
	Velocity []float64
	Target   []float64
	Progress float64
	Phase    anim.Phase
	Loops    uint32
	// Hex is set for color animations.
	Hex string
}

// Player is what the live view drives.
type Player interface {
	Frame() Frame
	Replay() error
	Stop()
}

// Sample reads the current state of m.
func Sample[T value.Animatable[T]](m *motion.Motion[T]) Frame {
	v, start, target := m.Value(), m.Start(), m.Target()
	f := Frame{
		Values:   v.Components(),
		Velocity: m.Velocity().Components(),
		Target:   target.Components(),
		Progress: value.Progress(start, v, target),
		Phase:    m.Phase(),
		Loops:    m.LoopCount(),
	}
	if h, ok := any(v).(interface{ Hex() string }); ok {
		f.Hex = h.Hex()
	}
	return f
}

// Speed is the euclidean norm of the frame velocity.
func (f Frame) Speed() float64 {
	sum := 0.0
	for _, v := range f.Velocity {
		sum += v * v
	}
	return math.Sqrt(sum)
}
