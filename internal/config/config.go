package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/easing"
	"github.com/san-kum/motion/internal/scheduler"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/value"
)

const (
	DefaultTargetFPS     = 60.0
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultMaxDuration   = 10 * time.Second
	DefaultKind          = KindFloat
)

// Value kinds accepted in animation files.
const (
	KindFloat     = "float"
	KindVec       = "vec"
	KindColor     = "color"
	KindTransform = "transform"
)

var (
	ErrInvalid       = errors.New("config: invalid")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Animation AnimationConfig `yaml:"animation"`
}

// EngineConfig holds the tuning shared by every animation in a run.
type EngineConfig struct {
	TargetFPS       float64       `yaml:"target_fps"`
	FrameInterval   time.Duration `yaml:"frame_interval"`
	MaxDuration     time.Duration `yaml:"max_duration"`
	Substep         float64       `yaml:"substep"`
	MaxSubsteps     int           `yaml:"max_substeps"`
	Integrator      string        `yaml:"integrator"`
	EpsilonScale    float64       `yaml:"epsilon_scale"`
	SettleCutoff    time.Duration `yaml:"settle_cutoff"`
	DivergenceBound float64       `yaml:"divergence_bound"`
}

type AnimationConfig struct {
	Kind     string          `yaml:"kind"`
	From     Value           `yaml:"from"`
	Segments []SegmentConfig `yaml:"segments"`
}

// SegmentConfig is one step of the animation. Exactly one of Spring and
// Tween must be set.
type SegmentConfig struct {
	To     Value         `yaml:"to"`
	Spring *SpringConfig `yaml:"spring,omitempty"`
	Tween  *TweenConfig  `yaml:"tween,omitempty"`
	Delay  time.Duration `yaml:"delay,omitempty"`
	Loop   string        `yaml:"loop,omitempty"`
}

// SpringConfig starts from Preset (default when empty) and overrides every
// field that is set. An explicit zero is an override like any other value,
// so `damping: 0` yields an undamped spring and `stiffness: 0` fails
// validation.
type SpringConfig struct {
	Preset    string   `yaml:"preset,omitempty"`
	Stiffness *float64 `yaml:"stiffness,omitempty"`
	Damping   *float64 `yaml:"damping,omitempty"`
	Mass      *float64 `yaml:"mass,omitempty"`
	Velocity  *float64 `yaml:"velocity,omitempty"`
}

// Float returns a pointer to f for SpringConfig overrides.
func Float(f float64) *float64 { return &f }

func (s SpringConfig) clone() *SpringConfig {
	out := s
	for _, p := range []**float64{&out.Stiffness, &out.Damping, &out.Mass, &out.Velocity} {
		if *p != nil {
			*p = Float(**p)
		}
	}
	return &out
}

type TweenConfig struct {
	Duration time.Duration `yaml:"duration"`
	Easing   string        `yaml:"easing,omitempty"`
}

func (s SegmentConfig) clone() SegmentConfig {
	out := s
	out.To = s.To.clone()
	if s.Spring != nil {
		out.Spring = s.Spring.clone()
	}
	if s.Tween != nil {
		tw := *s.Tween
		out.Tween = &tw
	}
	return out
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Animation.From = c.Animation.From.clone()
	out.Animation.Segments = make([]SegmentConfig, len(c.Animation.Segments))
	for i, s := range c.Animation.Segments {
		out.Animation.Segments[i] = s.clone()
	}
	return &out
}

func DefaultEngine() EngineConfig {
	tuning := anim.DefaultTuning()
	return EngineConfig{
		TargetFPS:       DefaultTargetFPS,
		FrameInterval:   DefaultFrameInterval,
		MaxDuration:     DefaultMaxDuration,
		Substep:         tuning.Solver.Substep,
		MaxSubsteps:     tuning.Solver.MaxSubsteps,
		Integrator:      tuning.Solver.Integrator,
		EpsilonScale:    tuning.EpsilonScale,
		SettleCutoff:    tuning.MaxDuration,
		DivergenceBound: tuning.DivergenceBound,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Engine: DefaultEngine(),
		Animation: AnimationConfig{
			Kind: DefaultKind,
			From: Num(0),
			Segments: []SegmentConfig{
				{To: Num(1), Spring: &SpringConfig{Preset: "default"}},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Engine: DefaultEngine(), Animation: AnimationConfig{Kind: DefaultKind}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

// Validate checks the engine settings and builds every segment once, so
// errors name the offending field.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	switch c.Animation.Kind {
	case KindFloat, KindVec, KindColor, KindTransform:
	default:
		return invalid("animation.kind", "unknown kind %q", c.Animation.Kind)
	}
	if len(c.Animation.Segments) == 0 {
		return invalid("animation.segments", "at least one segment is required")
	}
	if c.Animation.From.IsZero() {
		return invalid("animation.from", "missing")
	}
	if err := c.checkValue("animation.from", c.Animation.From); err != nil {
		return err
	}
	for i, seg := range c.Animation.Segments {
		field := fmt.Sprintf("animation.segments[%d]", i)
		if err := c.checkValue(field+".to", seg.To); err != nil {
			return err
		}
		if _, err := seg.AnimConfig(); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}

func (c *Config) checkValue(field string, v Value) error {
	var err error
	switch c.Animation.Kind {
	case KindFloat:
		_, err = v.Float()
	case KindVec:
		_, err = v.Vec()
	case KindColor:
		_, err = v.Color()
	case KindTransform:
		_, err = v.Transform()
	}
	if err != nil {
		return invalid(field, "%v", err)
	}
	return nil
}

func (e EngineConfig) Validate() error {
	if err := e.Scheduler().Validate(); err != nil {
		return invalid("engine.target_fps", "%v", err)
	}
	if e.FrameInterval <= 0 {
		return invalid("engine.frame_interval", "must be positive, got %v", e.FrameInterval)
	}
	if e.MaxDuration <= 0 {
		return invalid("engine.max_duration", "must be positive, got %v", e.MaxDuration)
	}
	if e.Substep <= 0 {
		return invalid("engine.substep", "must be positive, got %g", e.Substep)
	}
	if e.MaxSubsteps <= 0 {
		return invalid("engine.max_substeps", "must be positive, got %d", e.MaxSubsteps)
	}
	if _, err := spring.Lookup[value.Float](e.Integrator); err != nil {
		return invalid("engine.integrator", "%v", err)
	}
	return nil
}

func (e EngineConfig) Tuning() anim.Tuning {
	return anim.Tuning{
		Solver: spring.Settings{
			Substep:     e.Substep,
			MaxSubsteps: e.MaxSubsteps,
			Integrator:  e.Integrator,
		},
		EpsilonScale:    e.EpsilonScale,
		MaxDuration:     e.SettleCutoff,
		DivergenceBound: e.DivergenceBound,
	}
}

func (e EngineConfig) Scheduler() scheduler.Config {
	return scheduler.Config{TargetFPS: e.TargetFPS}
}

func (e EngineConfig) Run() sim.Config {
	return sim.Config{
		FrameInterval: e.FrameInterval,
		MaxDuration:   e.MaxDuration,
		TargetFPS:     e.TargetFPS,
	}
}

// AnimConfig builds the immutable animation config for the segment.
func (s SegmentConfig) AnimConfig() (*anim.Config, error) {
	var mode anim.Mode
	switch {
	case s.Spring != nil && s.Tween != nil:
		return nil, invalid("mode", "spring and tween are mutually exclusive")
	case s.Spring != nil:
		c, err := s.Spring.Resolve()
		if err != nil {
			return nil, err
		}
		mode = anim.Spring(c)
	case s.Tween != nil:
		fn, err := easing.Lookup(s.Tween.Easing)
		if err != nil {
			return nil, invalid("tween.easing", "%v", err)
		}
		mode = anim.Tween(s.Tween.Duration, fn)
	default:
		return nil, invalid("mode", "one of spring or tween is required")
	}

	loop, err := ParseLoop(s.Loop)
	if err != nil {
		return nil, err
	}
	cfg := anim.NewConfig(mode, anim.WithDelay(s.Delay), anim.WithLoop(loop))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve applies the overrides to the named spring preset.
func (s SpringConfig) Resolve() (spring.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	c, ok := spring.Preset(name)
	if !ok {
		return spring.Config{}, fmt.Errorf("%w: spring %q (have %s)", ErrUnknownPreset, name, strings.Join(spring.PresetNames(), ", "))
	}
	for _, o := range []struct {
		dst *float64
		src *float64
	}{{&c.Stiffness, s.Stiffness}, {&c.Damping, s.Damping}, {&c.Mass, s.Mass}, {&c.Velocity, s.Velocity}} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return c, nil
}

// ParseLoop accepts "", "none", "infinite" or a positive count.
func ParseLoop(s string) (anim.LoopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return anim.NoLoop(), nil
	case "infinite", "forever":
		return anim.Forever(), nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return anim.LoopMode{}, invalid("loop", "want none, infinite or a positive count, got %q", s)
	}
	return anim.Times(uint32(n)), nil
}

// FormatLoop is the inverse of ParseLoop.
func FormatLoop(l anim.LoopMode) string {
	switch l.Kind {
	case anim.LoopInfinite:
		return "infinite"
	case anim.LoopTimes:
		return strconv.FormatUint(uint64(l.Count), 10)
	default:
		return "none"
	}
}

// Sequence converts the segments into a sequence of T using conv for the
// target values.
func Sequence[T value.Animatable[T]](a AnimationConfig, conv func(Value) (T, error)) (*sequence.Sequence[T], error) {
	seq := sequence.New[T]()
	for i, seg := range a.Segments {
		to, err := conv(seg.To)
		if err != nil {
			return nil, invalid(fmt.Sprintf("animation.segments[%d].to", i), "%v", err)
		}
		cfg, err := seg.AnimConfig()
		if err != nil {
			return nil, fmt.Errorf("animation.segments[%d]: %w", i, err)
		}
		seq.Then(to, cfg)
	}
	return seq, nil
}
