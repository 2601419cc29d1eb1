package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera orbits the origin and projects points with a weak perspective.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Distance   float64
}

func NewCamera() *Camera {
	return &Camera{RotX: 0.4, RotY: -0.6, Zoom: 1, Distance: 6}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p onto an sw x sh dot surface. Points behind the eye are
// reported invisible.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	unit := math.Min(float64(sw), float64(sh)) / 3
	sx := int(rot.X*scale*unit) + sw/2
	sy := int(-rot.Y*scale*unit) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// normalize centers points on their bounding box and scales the largest
// extent to 2.
func normalize(points []Vec3) []Vec3 {
	if len(points) == 0 {
		return nil
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	center := Vec3{(lo.X + hi.X) / 2, (lo.Y + hi.Y) / 2, (lo.Z + hi.Z) / 2}
	extent := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	if extent == 0 {
		extent = 1
	}
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = p.Sub(center).Scale(2 / extent)
	}
	return out
}

// DrawPath3D projects the polyline through points onto c, joining
// consecutive visible points.
func DrawPath3D(c *Canvas, cam *Camera, points []Vec3) {
	if c == nil || cam == nil {
		return
	}
	w, h := c.Dots()
	prevX, prevY, prevOK := 0, 0, false
	for _, p := range normalize(points) {
		x, y, ok := cam.Project(p, w, h)
		switch {
		case ok && prevOK:
			c.DrawLine(prevX, prevY, x, y)
		case ok:
			c.Set(x, y)
		}
		prevX, prevY, prevOK = x, y, ok
	}
}
