package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const colorEpsilon = 0.5

// Color is an RGBA color with float channels in [0, 255]. Arithmetic is
// unclamped so velocities can be negative; use Clamp for display.
type Color struct {
	R, G, B, A float64
}

// RGBA builds a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := 255.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("value: invalid alpha in %q: %w", s, err)
		}
		alpha = float64(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("value: invalid color %q: %w", s, err)
	}
	return Color{R: c.R * 255, G: c.G * 255, B: c.B * 255, A: alpha}, nil
}

func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A}
}

func (c Color) Scale(factor float64) Color {
	return Color{c.R * factor, c.G * factor, c.B * factor, c.A * factor}
}

func (c Color) Magnitude() float64    { return maxAbs(c.R, c.G, c.B, c.A) }
func (c Color) Components() []float64 { return []float64{c.R, c.G, c.B, c.A} }
func (c Color) IsValid() bool         { return finite(c.R, c.G, c.B, c.A) }

// Epsilon is half a channel step: anything closer renders identically.
func (c Color) Epsilon() float64 { return colorEpsilon }

// Clamp limits every channel to [0, 255].
func (c Color) Clamp() Color {
	return Color{clamp255(c.R), clamp255(c.G), clamp255(c.B), clamp255(c.A)}
}

// RGBA8 returns the rounded, clamped 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	c = c.Clamp()
	return uint8(math.Round(c.R)), uint8(math.Round(c.G)), uint8(math.Round(c.B)), uint8(math.Round(c.A))
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	r, g, b, a := c.RGBA8()
	hex := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
	if a == 255 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, a)
}

func (c Color) String() string { return c.Hex() }

func clamp255(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
