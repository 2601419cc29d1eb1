// Package sequence chains animation segments into one logical animation.
package sequence

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/value"
)

// ErrEmpty is returned when a sequence with no steps is started.
var ErrEmpty = errors.New("sequence: no steps")

// Step is one segment: animate to Target using Config.
type Step[T value.Animatable[T]] struct {
	Target T
	Config *anim.Config
}

// Sequence is an ordered list of steps built with Then.
type Sequence[T value.Animatable[T]] struct {
	steps      []Step[T]
	onComplete func()
}

func New[T value.Animatable[T]]() *Sequence[T] {
	return &Sequence[T]{}
}

// Then appends a step and returns the sequence for chaining.
func (s *Sequence[T]) Then(target T, cfg *anim.Config) *Sequence[T] {
	s.steps = append(s.steps, Step[T]{Target: target, Config: cfg})
	return s
}

// OnComplete sets the callback fired after the last step completes.
func (s *Sequence[T]) OnComplete(fn func()) *Sequence[T] {
	s.onComplete = fn
	return s
}

func (s *Sequence[T]) Len() int { return len(s.steps) }

// Steps returns a copy of the steps.
func (s *Sequence[T]) Steps() []Step[T] {
	return append([]Step[T](nil), s.steps...)
}

// Validate checks every step up front so a bad segment cannot surface halfway
// through a run.
func (s *Sequence[T]) Validate() error {
	if s == nil || len(s.steps) == 0 {
		return ErrEmpty
	}
	for i, step := range s.steps {
		if err := step.Config.Validate(); err != nil {
			return fmt.Errorf("sequence: step %d: %w", i, err)
		}
		if !step.Target.IsValid() {
			return fmt.Errorf("sequence: step %d: %w", i, &anim.ConfigError{Field: "target", Reason: "contains NaN or Inf"})
		}
	}
	return nil
}

// Composer drives a State through a Sequence. Without an active sequence it
// ticks the state directly.
type Composer[T value.Animatable[T]] struct {
	state      *anim.State[T]
	steps      []Step[T]
	onComplete func()
	index      int
	active     bool
}

func NewComposer[T value.Animatable[T]](state *anim.State[T]) *Composer[T] {
	return &Composer[T]{state: state}
}

// Start validates seq and begins its first step. On error nothing changes.
func (c *Composer[T]) Start(seq *Sequence[T]) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	first := seq.steps[0]
	if err := c.state.AnimateTo(first.Target, first.Config); err != nil {
		return err
	}
	c.steps = seq.Steps()
	c.onComplete = seq.onComplete
	c.index = 0
	c.active = true
	return nil
}

// Tick advances the current step and moves to the next one when it reaches
// terminal completion. It reports whether more frames are needed.
func (c *Composer[T]) Tick(dt time.Duration) bool {
	if c.state.Tick(dt) {
		return true
	}
	if !c.active || !c.state.IsCompleted() {
		return false
	}

	c.index++
	if c.index >= len(c.steps) {
		c.active = false
		if c.onComplete != nil {
			c.state.Dispatch(c.onComplete)
		}
		return false
	}
	next := c.steps[c.index]
	if err := c.state.AnimateTo(next.Target, next.Config); err != nil {
		c.active = false
		return false
	}
	return true
}

// Cancel abandons the sequence without touching the state.
func (c *Composer[T]) Cancel() {
	c.active = false
	c.steps = nil
	c.onComplete = nil
}

// Active reports whether a sequence is in progress.
func (c *Composer[T]) Active() bool { return c.active }

// Index is the position of the current step.
func (c *Composer[T]) Index() int { return c.index }
