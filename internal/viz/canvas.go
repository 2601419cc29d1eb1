package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a grid of braille cells. Dot coordinates run (Width*2) x
// (Height*4) with the origin at the top left.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Cross marks (x, y) with a small plus sign.
func (c *Canvas) Cross(x, y int) {
	c.DrawLine(x-2, y, x+2, y)
	c.DrawLine(x, y-2, x, y+2)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots, y up.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Fit returns the smallest viewport holding every point, padded by a fraction
// of its span. Degenerate spans are widened to 1.
func Fit(points [][2]float64, pad float64) Viewport {
	if len(points) == 0 {
		return Viewport{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	}
	v := Viewport{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, p := range points {
		v.MinX, v.MaxX = math.Min(v.MinX, p[0]), math.Max(v.MaxX, p[0])
		v.MinY, v.MaxY = math.Min(v.MinY, p[1]), math.Max(v.MaxY, p[1])
	}
	v.MinX, v.MaxX = widen(v.MinX, v.MaxX, pad)
	v.MinY, v.MaxY = widen(v.MinY, v.MaxY, pad)
	return v
}

func widen(lo, hi, pad float64) (float64, float64) {
	span := hi - lo
	if span <= 0 {
		return lo - 0.5, hi + 0.5
	}
	return lo - span*pad, hi + span*pad
}

// Map converts world (x, y) to canvas dots.
func (v Viewport) Map(c *Canvas, x, y float64) (int, int) {
	w, h := c.Dots()
	px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(w-1)
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(h-1)
	return int(math.Round(px)), int(math.Round(py))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
