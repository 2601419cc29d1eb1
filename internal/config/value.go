package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motion/internal/value"
)

// Value is an animated value as written in a file: a number, a hex color
// string, a list of components, or a transform mapping.
type Value struct {
	Components []float64
	Hex        string
}

// Num returns a single-component value.
func Num(f float64) Value { return Value{Components: []float64{f}} }

// List returns a multi-component value.
func List(c ...float64) Value { return Value{Components: c} }

// Hex returns a color value.
func Hex(s string) Value { return Value{Hex: s} }

var transformKeys = []string{"x", "y", "scale", "rotation"}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!str" {
			v.Hex = node.Value
			return nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		v.Components = []float64{f}
	case yaml.SequenceNode:
		var c []float64
		if err := node.Decode(&c); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		v.Components = c
	case yaml.MappingNode:
		var m map[string]float64
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		t := value.Identity()
		for key, f := range m {
			switch key {
			case "x":
				t.X = f
			case "y":
				t.Y = f
			case "scale":
				t.ScaleFactor = f
			case "rotation":
				t.Rotation = f
			default:
				return fmt.Errorf("line %d: unknown transform key %q (want one of %v)", node.Line, key, transformKeys)
			}
		}
		v.Components = t.Components()
	default:
		return fmt.Errorf("line %d: unsupported value", node.Line)
	}
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	switch {
	case v.Hex != "":
		return v.Hex, nil
	case len(v.Components) == 1:
		return v.Components[0], nil
	default:
		return v.Components, nil
	}
}

func (v Value) clone() Value {
	return Value{Components: append([]float64(nil), v.Components...), Hex: v.Hex}
}

func (v Value) IsZero() bool { return v.Hex == "" && len(v.Components) == 0 }

// Float converts a single number.
func (v Value) Float() (value.Float, error) {
	if v.Hex != "" || len(v.Components) != 1 {
		return 0, fmt.Errorf("expected a number, got %s", v)
	}
	return value.Float(v.Components[0]), nil
}

// Vec converts any list of numbers.
func (v Value) Vec() (value.Vec, error) {
	if v.Hex != "" || len(v.Components) == 0 {
		return nil, fmt.Errorf("expected a list of numbers, got %s", v)
	}
	return append(value.Vec(nil), v.Components...), nil
}

// Color converts a hex string or [r, g, b] / [r, g, b, a] channels in 0..255.
func (v Value) Color() (value.Color, error) {
	if v.Hex != "" {
		return value.ParseHex(v.Hex)
	}
	switch len(v.Components) {
	case 3:
		c := v.Components
		return value.Color{R: c[0], G: c[1], B: c[2], A: 255}, nil
	case 4:
		c := v.Components
		return value.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	default:
		return value.Color{}, fmt.Errorf("expected a hex color or 3-4 channels, got %s", v)
	}
}

// Transform converts a mapping or [x, y, scale, rotation].
func (v Value) Transform() (value.Transform, error) {
	if v.Hex != "" || len(v.Components) != 4 {
		return value.Transform{}, fmt.Errorf("expected x, y, scale, rotation, got %s", v)
	}
	c := v.Components
	return value.Transform{X: c[0], Y: c[1], ScaleFactor: c[2], Rotation: c[3]}, nil
}

func (v Value) String() string {
	if v.Hex != "" {
		return fmt.Sprintf("%q", v.Hex)
	}
	return fmt.Sprint(v.Components)
}
