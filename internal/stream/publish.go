package stream

import (
	"sync/atomic"
	"time"

	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/value"
)

// Publish forwards every repaint of m to b as a "frame" message and returns
// the unsubscribe func. Time is measured from the call to Publish.
func Publish[T value.Animatable[T]](b *Broker, name string, m *motion.Motion[T]) func() {
	start := time.Now()
	var seq atomic.Uint64
	return m.Subscribe(func(v T) {
		b.Publish(FrameMessage(name, seq.Add(1), time.Since(start), v, m))
	})
}

// FrameMessage describes v as the current value of m.
func FrameMessage[T value.Animatable[T]](name string, seq uint64, at time.Duration, v T, m *motion.Motion[T]) *Message {
	msg := &Message{
		Type:   "frame",
		Name:   name,
		Seq:    seq,
		Time:   at.Seconds(),
		Values: v.Components(),
		Phase:  m.Phase().String(),
		Loops:  m.LoopCount(),
	}
	if h, ok := any(v).(interface{ Hex() string }); ok {
		msg.Hex = h.Hex()
	}
	return msg
}
