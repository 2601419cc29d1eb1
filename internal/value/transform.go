package value

// Transform is a 2D translate/scale/rotate bundle. Rotation is in degrees.
type Transform struct {
	X, Y        float64
	ScaleFactor float64
	Rotation    float64
}

// Identity returns the transform that leaves geometry unchanged.
func Identity() Transform {
	return Transform{ScaleFactor: 1}
}

func (t Transform) Add(o Transform) Transform {
	return Transform{t.X + o.X, t.Y + o.Y, t.ScaleFactor + o.ScaleFactor, t.Rotation + o.Rotation}
}

func (t Transform) Sub(o Transform) Transform {
	return Transform{t.X - o.X, t.Y - o.Y, t.ScaleFactor - o.ScaleFactor, t.Rotation - o.Rotation}
}

func (t Transform) Scale(factor float64) Transform {
	return Transform{t.X * factor, t.Y * factor, t.ScaleFactor * factor, t.Rotation * factor}
}

func (t Transform) Magnitude() float64    { return maxAbs(t.Components()...) }
func (t Transform) Components() []float64 { return []float64{t.X, t.Y, t.ScaleFactor, t.Rotation} }
func (t Transform) IsValid() bool         { return finite(t.Components()...) }

// Epsilon scales with translation and scale only. Rotation is in degrees
// and keeps the base tolerance, so a spin to 360 settles as tightly as one
// to 1.
func (t Transform) Epsilon() float64 {
	return scaledEpsilon(floatEpsilon, maxAbs(t.X, t.Y, t.ScaleFactor))
}

// Transform3D adds depth and per-axis rotation (degrees).
type Transform3D struct {
	X, Y, Z                   float64
	RotateX, RotateY, RotateZ float64
	ScaleFactor               float64
}

func (t Transform3D) Add(o Transform3D) Transform3D {
	return Transform3D{
		X: t.X + o.X, Y: t.Y + o.Y, Z: t.Z + o.Z,
		RotateX: t.RotateX + o.RotateX, RotateY: t.RotateY + o.RotateY, RotateZ: t.RotateZ + o.RotateZ,
		ScaleFactor: t.ScaleFactor + o.ScaleFactor,
	}
}

func (t Transform3D) Sub(o Transform3D) Transform3D {
	return t.Add(o.Scale(-1))
}

func (t Transform3D) Scale(factor float64) Transform3D {
	return Transform3D{
		X: t.X * factor, Y: t.Y * factor, Z: t.Z * factor,
		RotateX: t.RotateX * factor, RotateY: t.RotateY * factor, RotateZ: t.RotateZ * factor,
		ScaleFactor: t.ScaleFactor * factor,
	}
}

func (t Transform3D) Magnitude() float64 { return maxAbs(t.Components()...) }
func (t Transform3D) IsValid() bool      { return finite(t.Components()...) }

func (t Transform3D) Components() []float64 {
	return []float64{t.X, t.Y, t.Z, t.RotateX, t.RotateY, t.RotateZ, t.ScaleFactor}
}

func (t Transform3D) Epsilon() float64 {
	return scaledEpsilon(floatEpsilon, maxAbs(t.X, t.Y, t.Z, t.ScaleFactor))
}
