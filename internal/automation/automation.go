// Package automation scripts batches of runs: YAML scenarios of presets or
// animation files, and sweeps of one spring parameter.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/san-kum/motion/internal/config"
	"gopkg.in/yaml.v3"
)

var ErrNoSpring = errors.New("automation: animation has no spring segment")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Exactly one of Preset and File names the animation; the
// remaining fields override its engine settings when set.
type Step struct {
	Preset     string   `yaml:"preset,omitempty"`
	File       string   `yaml:"file,omitempty"`
	Integrator string   `yaml:"integrator,omitempty"`
	TargetFPS  *float64 `yaml:"target_fps,omitempty"`
	SaveAs     string   `yaml:"save_as,omitempty"`
}

// LoadScenario reads a scenario from a YAML file. Relative step files are
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range sc.Steps {
		if f := sc.Steps[i].File; f != "" && !filepath.IsAbs(f) {
			sc.Steps[i].File = filepath.Join(dir, f)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", config.ErrInvalid)
	}
	for i, s := range sc.Steps {
		if (s.Preset == "") == (s.File == "") {
			return fmt.Errorf("%w: step %d: exactly one of preset and file is required", config.ErrInvalid, i+1)
		}
	}
	return nil
}

// Config resolves the step to a validated animation file and the name its
// run is saved under.
func (s Step) Config() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
		err  error
	)
	if s.File != "" {
		cfg, err = config.Load(s.File)
		name = filepath.Base(s.File)
		name = name[:len(name)-len(filepath.Ext(name))]
	} else {
		cfg, err = config.GetPreset(s.Preset)
		name = s.Preset
	}
	if err != nil {
		return nil, "", err
	}

	if s.Integrator != "" {
		cfg.Engine.Integrator = s.Integrator
	}
	if s.TargetFPS != nil {
		cfg.Engine.TargetFPS = *s.TargetFPS
	}
	if s.SaveAs != "" {
		name = s.SaveAs
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// Executor performs one resolved run.
type Executor func(ctx context.Context, name string, cfg *config.Config) error

// RunScenario executes the steps in order and stops at the first failure.
// It returns the number of steps that completed.
func RunScenario(ctx context.Context, sc *Scenario, exec Executor) (int, error) {
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		cfg, name, err := step.Config()
		if err != nil {
			return i, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("scenario %s: step %d/%d: %s", sc.Name, i+1, len(sc.Steps), name)
		if err := exec(ctx, name, cfg); err != nil {
			return i, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
	}
	return len(sc.Steps), nil
}

// Sweep varies one spring parameter of the first spring segment across an
// inclusive range.
type Sweep struct {
	Param    string
	Min, Max float64
	Steps    int
}

// SweepParams lists the parameters a Sweep can vary.
var SweepParams = []string{"stiffness", "damping", "mass", "velocity"}

func (s Sweep) Validate() error {
	if s.Steps < 2 {
		return fmt.Errorf("%w: sweep needs at least 2 steps, got %d", config.ErrInvalid, s.Steps)
	}
	if s.Max <= s.Min {
		return fmt.Errorf("%w: sweep range [%g, %g] is empty", config.ErrInvalid, s.Min, s.Max)
	}
	for _, p := range SweepParams {
		if p == s.Param {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown sweep parameter %q", config.ErrInvalid, s.Param)
}

// Values returns the parameter values, evenly spaced from Min to Max.
func (s Sweep) Values() []float64 {
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	out[len(out)-1] = s.Max
	return out
}

// Apply returns one copy of base per sweep value. Every value, zero
// included, overrides the spring preset's own setting.
func (s Sweep) Apply(base *config.Config) ([]*config.Config, []float64, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	idx := -1
	for i, seg := range base.Animation.Segments {
		if seg.Spring != nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, ErrNoSpring
	}

	values := s.Values()
	out := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := base.Clone()
		sp := cfg.Animation.Segments[idx].Spring
		switch s.Param {
		case "stiffness":
			sp.Stiffness = config.Float(v)
		case "damping":
			sp.Damping = config.Float(v)
		case "mass":
			sp.Mass = config.Float(v)
		case "velocity":
			sp.Velocity = config.Float(v)
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s=%g: %w", s.Param, v, err)
		}
		out[i] = cfg
	}
	return out, values, nil
}
