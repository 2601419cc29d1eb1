package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/value"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Animation.Kind != KindFloat {
		t.Errorf("expected kind float, got %s", cfg.Animation.Kind)
	}
	if cfg.Engine.FrameInterval <= 0 {
		t.Error("frame interval should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

const sample = `
engine:
  target_fps: 120
  frame_interval: 8ms
  integrator: verlet
animation:
  kind: color
  from: "#ff0000"
  segments:
    - to: [0, 0, 255]
      spring:
        preset: wobbly
        damping: 20
      loop: 2
    - to: "#00ff00"
      tween:
        duration: 250ms
        easing: ease-in-out
      delay: 50ms
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.Engine.TargetFPS != 120 || cfg.Engine.FrameInterval != 8*time.Millisecond {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.MaxSubsteps != DefaultEngine().MaxSubsteps {
		t.Error("unset engine fields should keep their defaults")
	}

	from, err := cfg.Animation.From.Color()
	if err != nil || from != value.RGBA(255, 0, 0, 255) {
		t.Errorf("from = %+v (%v)", from, err)
	}

	seq, err := Sequence(cfg.Animation, Value.Color)
	if err != nil {
		t.Fatal(err)
	}
	steps := seq.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Target != value.RGBA(0, 0, 255, 255) {
		t.Errorf("step 0 target = %+v", steps[0].Target)
	}
	mode, ok := steps[0].Config.Mode().(anim.SpringMode)
	if !ok || mode.Spring.Damping != 20 || mode.Spring.Stiffness != 180 {
		t.Errorf("step 0 mode = %v", steps[0].Config.Mode())
	}
	if steps[0].Config.Loop() != anim.Times(2) {
		t.Errorf("step 0 loop = %v", steps[0].Config.Loop())
	}
	if steps[1].Config.Delay() != 50*time.Millisecond {
		t.Errorf("step 1 delay = %v", steps[1].Config.Delay())
	}
}

func TestParse_Transform(t *testing.T) {
	data := `
animation:
  kind: transform
  from: {x: 0, y: 0}
  segments:
    - to: {x: 10, rotation: 45}
      spring: {preset: stiff}
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	from, _ := cfg.Animation.From.Transform()
	if from != value.Identity() {
		t.Errorf("omitted keys should default to identity, got %+v", from)
	}
	to, _ := cfg.Animation.Segments[0].To.Transform()
	if to.X != 10 || to.Rotation != 45 || to.ScaleFactor != 1 {
		t.Errorf("to = %+v", to)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown kind", "animation: {kind: quaternion, from: 0, segments: [{to: 1, spring: {}}]}"},
		{"no segments", "animation: {kind: float, from: 0}"},
		{"missing from", "animation: {kind: float, segments: [{to: 1, spring: {}}]}"},
		{"no mode", "animation: {kind: float, from: 0, segments: [{to: 1}]}"},
		{"both modes", "animation: {kind: float, from: 0, segments: [{to: 1, spring: {}, tween: {duration: 1s}}]}"},
		{"zero duration", "animation: {kind: float, from: 0, segments: [{to: 1, tween: {duration: 0s}}]}"},
		{"zero stiffness", "animation: {kind: float, from: 0, segments: [{to: 1, spring: {stiffness: -1}}]}"},
		{"bad loop", "animation: {kind: float, from: 0, segments: [{to: 1, spring: {}, loop: 0}]}"},
		{"bad easing", "animation: {kind: float, from: 0, segments: [{to: 1, tween: {duration: 1s, easing: wobble}}]}"},
		{"kind mismatch", "animation: {kind: float, from: [1, 2], segments: [{to: 1, spring: {}}]}"},
		{"bad integrator", "engine: {integrator: rk9}\nanimation: {kind: float, from: 0, segments: [{to: 1, spring: {}}]}"},
		{"bad fps", "engine: {target_fps: -5}\nanimation: {kind: float, from: 0, segments: [{to: 1, spring: {}}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSpringOverrides(t *testing.T) {
	def, _ := spring.Preset("default")
	with := func(f func(*spring.Config)) spring.Config {
		c := def
		f(&c)
		return c
	}
	tests := []struct {
		name    string
		spring  string
		want    spring.Config
		wantErr error
	}{
		{"preset only", `{preset: default}`, def, nil},
		{"zero damping", `{damping: 0}`, with(func(c *spring.Config) { c.Damping = 0 }), nil},
		{"zero velocity", `{preset: default, velocity: 0}`, with(func(c *spring.Config) { c.Velocity = 0 }), nil},
		{"stiffness and mass", `{stiffness: 300, mass: 2}`, with(func(c *spring.Config) { c.Stiffness, c.Mass = 300, 2 }), nil},
		{"zero stiffness", `{stiffness: 0}`, spring.Config{}, spring.ErrInvalidConfig},
		{"zero mass", `{mass: 0}`, spring.Config{}, spring.ErrInvalidConfig},
		{"negative damping", `{damping: -1}`, spring.Config{}, spring.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "animation:\n  from: 0\n  segments:\n    - to: 1\n      spring: " + tt.spring + "\n"
			cfg, err := Parse([]byte(data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got, err := cfg.Animation.Segments[0].Spring.Resolve()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("resolved %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpringOverrides_SaveKeepsZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.Segments[0].Spring.Damping = Float(0)
	path := filepath.Join(t.TempDir(), "undamped.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d := loaded.Animation.Segments[0].Spring.Damping
	if d == nil || *d != 0 {
		t.Fatalf("damping override lost on save: %v", d)
	}
}

func TestParse_UnknownSpringPreset(t *testing.T) {
	_, err := Parse([]byte("animation: {kind: float, from: 0, segments: [{to: 1, spring: {preset: boing}}]}"))
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.yaml")
	cfg, err := GetPreset("chain")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Engine.TargetFPS = 30

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v\n%s", err, data)
	}
	if loaded.Engine.TargetFPS != 30 {
		t.Errorf("target fps = %v", loaded.Engine.TargetFPS)
	}
	if len(loaded.Animation.Segments) != 3 || loaded.Animation.Segments[1].Delay != 100*time.Millisecond {
		t.Errorf("segments = %+v", loaded.Animation.Segments)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %v", len(Presets), names)
	}
	for _, name := range names {
		cfg, err := GetPreset(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_Copy(t *testing.T) {
	a, _ := GetPreset("flash")
	a.Animation.Segments[0].Spring.Stiffness = Float(1)
	a.Animation.Segments[0].To.Hex = "#000000"

	b, _ := GetPreset("flash")
	if b.Animation.Segments[0].Spring.Stiffness != nil || b.Animation.Segments[0].To.Hex != "#ff8800" {
		t.Error("GetPreset returned shared state")
	}
}

func TestClone(t *testing.T) {
	a, _ := GetPreset("chain")
	a.Animation.Segments[1].Spring.Damping = Float(12)
	b := a.Clone()
	b.Engine.Integrator = "verlet"
	b.Animation.From.Components[0] = 9
	*b.Animation.Segments[1].Spring.Damping = 1
	b.Animation.Segments[0].Tween.Easing = "linear"

	if a.Engine.Integrator == "verlet" || a.Animation.From.Components[0] != 0 {
		t.Error("Clone shares engine or from")
	}
	if *a.Animation.Segments[1].Spring.Damping != 12 || a.Animation.Segments[0].Tween.Easing != "cubic-out" {
		t.Error("Clone shares segments")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestParseLoop(t *testing.T) {
	tests := []struct {
		in   string
		want anim.LoopMode
		err  bool
	}{
		{"", anim.NoLoop(), false},
		{"none", anim.NoLoop(), false},
		{"Infinite", anim.Forever(), false},
		{"3", anim.Times(3), false},
		{"0", anim.LoopMode{}, true},
		{"-1", anim.LoopMode{}, true},
		{"often", anim.LoopMode{}, true},
	}
	for _, tt := range tests {
		got, err := ParseLoop(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("%q: err = %v", tt.in, err)
			continue
		}
		if !tt.err && got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
		if !tt.err && tt.in != "" {
			if back, _ := ParseLoop(FormatLoop(got)); back != got {
				t.Errorf("%q did not round-trip", tt.in)
			}
		}
	}
}
