package anim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/motion/internal/easing"
	"github.com/san-kum/motion/internal/spring"
)

// Mode selects how a run moves the value: [SpringMode] or [TweenMode].
type Mode interface {
	Validate() error
	String() string
	isMode()
}

// SpringMode drives the value with spring physics.
type SpringMode struct {
	Spring spring.Config
}

// Spring returns a spring-physics mode.
func Spring(c spring.Config) Mode {
	return SpringMode{Spring: c}
}

func (m SpringMode) Validate() error {
	if err := m.Spring.Validate(); err != nil {
		return &ConfigError{Field: "spring", Cause: err}
	}
	return nil
}

func (m SpringMode) String() string {
	return fmt.Sprintf("spring(k=%g c=%g m=%g)", m.Spring.Stiffness, m.Spring.Damping, m.Spring.Mass)
}

func (SpringMode) isMode() {}

// TweenMode interpolates over a fixed duration.
type TweenMode struct {
	Tween easing.Tween
}

// Tween returns a duration-based mode. A nil curve is linear.
func Tween(duration time.Duration, fn easing.Func) Mode {
	return TweenMode{Tween: easing.NewTween(duration, fn)}
}

func (m TweenMode) Validate() error {
	if m.Tween.Duration <= 0 {
		return &ConfigError{Field: "duration", Reason: fmt.Sprintf("must be positive, got %v", m.Tween.Duration)}
	}
	if m.Tween.Easing == nil {
		return &ConfigError{Field: "easing", Reason: "missing curve"}
	}
	return nil
}

func (m TweenMode) String() string {
	return fmt.Sprintf("tween(%v)", m.Tween.Duration)
}

func (TweenMode) isMode() {}

// LoopKind enumerates loop policies.
type LoopKind int

const (
	LoopNone LoopKind = iota
	LoopInfinite
	LoopTimes
)

// LoopMode decides what happens when a run completes.
type LoopMode struct {
	Kind  LoopKind
	Count uint32
}

// NoLoop runs once.
func NoLoop() LoopMode { return LoopMode{Kind: LoopNone} }

// Forever restarts until stopped.
func Forever() LoopMode { return LoopMode{Kind: LoopInfinite} }

// Times runs n times in total.
func Times(n uint32) LoopMode { return LoopMode{Kind: LoopTimes, Count: n} }

func (l LoopMode) Validate() error {
	switch l.Kind {
	case LoopNone, LoopInfinite:
		return nil
	case LoopTimes:
		if l.Count == 0 {
			return &ConfigError{Field: "loop", Reason: "finite loop count must be positive"}
		}
		return nil
	default:
		return &ConfigError{Field: "loop", Reason: fmt.Sprintf("unknown kind %d", int(l.Kind))}
	}
}

func (l LoopMode) String() string {
	switch l.Kind {
	case LoopNone:
		return "none"
	case LoopInfinite:
		return "infinite"
	case LoopTimes:
		return fmt.Sprintf("%d", l.Count)
	default:
		return fmt.Sprintf("LoopKind(%d)", int(l.Kind))
	}
}

// Config describes one animation. It cannot be modified after NewConfig
// returns, so a single *Config can be shared freely.
type Config struct {
	mode       Mode
	delay      time.Duration
	loop       LoopMode
	onComplete func()
}

// Option customizes a Config at construction.
type Option func(*Config)

// WithDelay postpones every run (including loop restarts) by d.
func WithDelay(d time.Duration) Option {
	return func(c *Config) { c.delay = d }
}

// WithLoop sets the loop policy.
func WithLoop(l LoopMode) Option {
	return func(c *Config) { c.loop = l }
}

// WithOnComplete registers a callback for the terminal completion.
func WithOnComplete(fn func()) Option {
	return func(c *Config) { c.onComplete = fn }
}

// NewConfig builds an immutable animation config.
func NewConfig(mode Mode, opts ...Option) *Config {
	c := &Config{mode: mode, loop: NoLoop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Config) Mode() Mode           { return c.mode }
func (c *Config) Delay() time.Duration { return c.delay }
func (c *Config) Loop() LoopMode       { return c.loop }
func (c *Config) OnComplete() func()   { return c.onComplete }

// Validate rejects configurations that could never start or finish.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{Field: "config", Reason: "nil"}
	}
	if c.mode == nil {
		return &ConfigError{Field: "mode", Reason: "missing"}
	}
	if err := c.mode.Validate(); err != nil {
		return err
	}
	if c.delay < 0 {
		return &ConfigError{Field: "delay", Reason: fmt.Sprintf("must not be negative, got %v", c.delay)}
	}
	return c.loop.Validate()
}

func (c *Config) String() string {
	return fmt.Sprintf("%s delay=%v loop=%s", c.mode, c.delay, c.loop)
}

// Tuning holds engine-wide numeric policy shared by every state.
type Tuning struct {
	Solver spring.Settings
	// EpsilonScale multiplies every settle tolerance.
	EpsilonScale float64
	// MaxDuration force-settles a spring run that has not converged. It is
	// always enforced; zero selects the default.
	MaxDuration time.Duration
	// DivergenceBound is the largest distance from the target, relative to
	// the run's span, a spring may reach before it is snapped.
	DivergenceBound float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Solver:          spring.DefaultSettings(),
		EpsilonScale:    1,
		MaxDuration:     30 * time.Second,
		DivergenceBound: 1e6,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.EpsilonScale <= 0 || math.IsNaN(t.EpsilonScale) {
		t.EpsilonScale = d.EpsilonScale
	}
	if t.DivergenceBound <= 0 || math.IsNaN(t.DivergenceBound) {
		t.DivergenceBound = d.DivergenceBound
	}
	if t.MaxDuration <= 0 {
		t.MaxDuration = d.MaxDuration
	}
	return t
}
