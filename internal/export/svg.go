// Package export renders saved run traces as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/motion/internal/viz"
)

const background = "#0a0a0a"

// Series is one curve in world coordinates.
type Series struct {
	Name   string
	X, Y   []float64
	Stroke string
}

func (s Series) points() [][2]float64 {
	n := min(len(s.X), len(s.Y))
	out := make([][2]float64, n)
	for i := range out {
		out[i] = [2]float64{s.X[i], s.Y[i]}
	}
	return out
}

// fit returns one viewport shared by every series.
func fit(series []Series) viz.Viewport {
	var all [][2]float64
	for _, s := range series {
		all = append(all, s.points()...)
	}
	return viz.Fit(all, 0.1)
}

// strokes cycles the theme colors for series without an explicit stroke.
func strokes(t viz.Theme) []string {
	return []string{
		string(t.Primary),
		string(t.Secondary),
		string(t.Accent),
		string(t.Success),
		string(t.Warning),
	}
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// TraceSVG draws every series as a polyline on a shared y-up viewport, with
// a legend in the top left corner. It returns "" when no series has two
// points.
func TraceSVG(series []Series, width, height int, theme viz.Theme) string {
	var drawable []Series
	for _, s := range series {
		if len(s.points()) >= 2 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 {
		return ""
	}

	v := fit(drawable)
	w, h := float64(width), float64(height)
	palette := strokes(theme)

	var sb strings.Builder
	header(&sb, w, h)

	for i, s := range drawable {
		stroke := s.Stroke
		if stroke == "" {
			stroke = palette[i%len(palette)]
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
		for j, p := range s.points() {
			x := (p[0] - v.MinX) / (v.MaxX - v.MinX) * w
			y := (v.MaxY - p[1]) / (v.MaxY - v.MinY) * h
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		if s.Name != "" {
			fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+14*i, stroke, escape(s.Name))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Rasterize draws the series onto a braille canvas of w x h cells.
func Rasterize(series []Series, w, h int) *viz.Canvas {
	c := viz.NewCanvas(w, h)
	v := fit(series)
	for _, s := range series {
		pts := s.points()
		for i := 1; i < len(pts); i++ {
			x0, y0 := v.Map(c, pts[i-1][0], pts[i-1][1])
			x1, y1 := v.Map(c, pts[i][0], pts[i][1])
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	return c
}

// CanvasSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasSVG(c *viz.Canvas, scale float64, fill string) string {
	if c == nil {
		return ""
	}

	dw, dh := c.Dots()
	var sb strings.Builder
	header(&sb, float64(dw)*scale, float64(dh)*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }
