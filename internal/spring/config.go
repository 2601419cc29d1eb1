package spring

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidConfig is wrapped by every spring validation failure.
var ErrInvalidConfig = errors.New("spring: invalid configuration")

// ConfigError names the offending field.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("spring: %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config holds the physical parameters of a spring.
type Config struct {
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	Damping   float64 `yaml:"damping" json:"damping"`
	Mass      float64 `yaml:"mass" json:"mass"`
	// Velocity is the initial speed along the start->target direction.
	Velocity float64 `yaml:"velocity,omitempty" json:"velocity,omitempty"`
}

// Default is critically damped for unit mass.
func Default() Config {
	return Config{Stiffness: 170, Damping: 26, Mass: 1}
}

func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"stiffness", c.Stiffness}, {"damping", c.Damping}, {"mass", c.Mass}, {"velocity", c.Velocity}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}
	if c.Stiffness <= 0 {
		return &ConfigError{Field: "stiffness", Value: c.Stiffness, Reason: "must be positive"}
	}
	if c.Damping < 0 {
		return &ConfigError{Field: "damping", Value: c.Damping, Reason: "must not be negative"}
	}
	if c.Mass <= 0 {
		return &ConfigError{Field: "mass", Value: c.Mass, Reason: "must be positive"}
	}
	return nil
}

// NaturalFrequency is the undamped angular frequency sqrt(k/m).
func (c Config) NaturalFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio is 1 for critical damping, below 1 when the spring oscillates.
func (c Config) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

var presets = map[string]Config{
	"default":  Default(),
	"gentle":   {Stiffness: 120, Damping: 14, Mass: 1},
	"wobbly":   {Stiffness: 180, Damping: 12, Mass: 1},
	"stiff":    {Stiffness: 210, Damping: 20, Mass: 1},
	"slow":     {Stiffness: 280, Damping: 60, Mass: 1},
	"molasses": {Stiffness: 280, Damping: 120, Mass: 1},
}

// Preset returns a named spring.
func Preset(name string) (Config, bool) {
	c, ok := presets[name]
	return c, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
