package value

import (
	"math"
	"testing"
)

func TestFloat_Arithmetic(t *testing.T) {
	a, b := Float(1.5), Float(4)

	if got := a.Add(b); got != 5.5 {
		t.Errorf("Add = %v, want 5.5", got)
	}
	if got := b.Sub(a); got != 2.5 {
		t.Errorf("Sub = %v, want 2.5", got)
	}
	if got := a.Scale(2); got != 3 {
		t.Errorf("Scale = %v, want 3", got)
	}
	if got := Float(-3).Magnitude(); got != 3 {
		t.Errorf("Magnitude = %v, want 3", got)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		got   bool
	}{
		{"float", true, Float(1).IsValid()},
		{"float NaN", false, Float(math.NaN()).IsValid()},
		{"vec2 +Inf", false, Vec2{1, math.Inf(1)}.IsValid()},
		{"vec empty", true, Vec{}.IsValid()},
		{"vec -Inf", false, Vec{0, math.Inf(-1)}.IsValid()},
		{"color", true, RGBA(1, 2, 3, 4).IsValid()},
		{"transform NaN", false, Transform{Rotation: math.NaN()}.IsValid()},
		{"transform3d", true, Transform3D{ScaleFactor: 1}.IsValid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", tt.got, tt.valid)
			}
		})
	}
}

func TestVec_MismatchedLengths(t *testing.T) {
	var zero Vec
	sum := zero.Add(Vec{1, 2, 3})
	if len(sum) != 3 || sum[0] != 1 || sum[2] != 3 {
		t.Errorf("Add with zero vec = %v", sum)
	}

	diff := Vec{5}.Sub(Vec{1, 1})
	if len(diff) != 2 || diff[0] != 4 || diff[1] != -1 {
		t.Errorf("Sub with padding = %v", diff)
	}
}

func TestMagnitude_InfinityNorm(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"vec2", Vec2{3, -4}.Magnitude(), 4},
		{"vec", Vec{1, -7, 2}.Magnitude(), 7},
		{"color", Color{R: 10, G: 200, B: 30, A: 255}.Magnitude(), 255},
		{"transform", Transform{X: -12, ScaleFactor: 1}.Magnitude(), 12},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: Magnitude = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(Float(0), Float(10), 0.5); got != 5 {
		t.Errorf("Lerp float = %v, want 5", got)
	}

	got := Lerp(Vec2{0, 0}, Vec2{2, -4}, 0.25)
	if got != (Vec2{0.5, -1}) {
		t.Errorf("Lerp vec2 = %v", got)
	}

	tr := Lerp(Identity(), Transform{X: 100, ScaleFactor: 2, Rotation: 90}, 0.5)
	if tr.X != 50 || tr.ScaleFactor != 1.5 || tr.Rotation != 45 {
		t.Errorf("Lerp transform = %+v", tr)
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name                   string
		start, current, target Vec2
		want                   float64
	}{
		{"start", Vec2{0, 0}, Vec2{0, 0}, Vec2{10, 0}, 0},
		{"halfway", Vec2{0, 0}, Vec2{5, 3}, Vec2{10, 0}, 0.5},
		{"overshoot", Vec2{0, 0}, Vec2{12, 0}, Vec2{10, 0}, 1.2},
		{"degenerate", Vec2{1, 1}, Vec2{4, 4}, Vec2{1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.start, tt.current, tt.target); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	d := Direction(Vec2{1, 1}, Vec2{4, 5})
	if math.Abs(d.X-0.6) > 1e-12 || math.Abs(d.Y-0.8) > 1e-12 {
		t.Errorf("Direction = %v, want {0.6 0.8}", d)
	}

	if z := Direction(Float(2), Float(2)); z != 0 {
		t.Errorf("Direction of equal points = %v, want 0", z)
	}
}

func TestEpsilon_ScalesWithMagnitude(t *testing.T) {
	small := Float(0.5).Epsilon()
	large := Float(1000).Epsilon()

	if small != floatEpsilon {
		t.Errorf("small epsilon = %v, want %v", small, floatEpsilon)
	}
	if math.Abs(large-1) > 1e-12 {
		t.Errorf("large epsilon = %v, want 1", large)
	}
	if (Color{R: 255}).Epsilon() != colorEpsilon {
		t.Error("color epsilon should not scale with channel value")
	}
}

func TestEpsilon_TransformIgnoresRotation(t *testing.T) {
	tests := []struct {
		name string
		in   interface{ Epsilon() float64 }
		want float64
	}{
		{"full turn", Transform{Rotation: 360, ScaleFactor: 1}, floatEpsilon},
		{"negative turn", Transform{Rotation: -720}, floatEpsilon},
		{"translation", Transform{X: 500, Rotation: 360}, 0.5},
		{"scale", Transform{ScaleFactor: 4}, 4 * floatEpsilon},
		{"3d rotation", Transform3D{RotateX: 180, RotateZ: 90, ScaleFactor: 1}, floatEpsilon},
		{"3d depth", Transform3D{Z: -200, RotateY: 360}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Epsilon(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Epsilon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColor_ParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff0000", Color{255, 0, 0, 255}, true},
		{"#00ff0080", Color{0, 255, 0, 128}, true},
		{"#fff", Color{255, 255, 255, 255}, true},
		{"red", Color{}, false},
		{"#00ff00zz", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseHex(%q) err = %v", tt.in, err)
			}
			if !tt.ok {
				return
			}
			if Distance(got, tt.want) > 1e-9 {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColor_HexRoundTrip(t *testing.T) {
	c := RGBA(18, 52, 86, 255)
	if got := c.Hex(); got != "#123456" {
		t.Errorf("Hex = %q, want #123456", got)
	}

	c.A = 0x80
	if got := c.Hex(); got != "#12345680" {
		t.Errorf("Hex with alpha = %q, want #12345680", got)
	}
}

func TestColor_Clamp(t *testing.T) {
	c := Color{R: -12, G: 300, B: 128, A: math.NaN()}.Clamp()
	if c.R != 0 || c.G != 255 || c.B != 128 || c.A != 0 {
		t.Errorf("Clamp = %+v", c)
	}
}

func TestColor_ChannelInterpolationMonotonic(t *testing.T) {
	start := RGBA(255, 0, 128, 255)
	target := RGBA(0, 255, 128, 0)

	prev := start
	for i := 1; i <= 100; i++ {
		cur := Lerp(start, target, float64(i)/100).Clamp()
		if cur.R > prev.R || cur.G < prev.G || cur.A > prev.A {
			t.Fatalf("step %d not monotonic: %+v after %+v", i, cur, prev)
		}
		if cur.R < 0 || cur.G > 255 {
			t.Fatalf("step %d out of range: %+v", i, cur)
		}
		prev = cur
	}
	if prev != target {
		t.Errorf("end = %+v, want %+v", prev, target)
	}
}
