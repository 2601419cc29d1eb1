// Package value defines the numeric value space animations operate on.
//
// Any type that behaves like a small vector can be animated:
//
//   - [Float]: a single scalar (opacity, offset, angle)
//   - [Vec2]: a 2D point
//   - [Vec]: a dynamic-dimension vector
//   - [Color]: RGBA with float channels in [0, 255]
//   - [Transform], [Transform3D]: bundles of translate/scale/rotate
//
// Every type implements [Animatable], the capability set the spring solver and
// tween interpolator need: add, subtract, scale, an infinity-norm magnitude and a
// validity check. The zero value of each type is the additive identity.
//
// # Example
//
//	from := value.Float(0)
//	to := value.Float(10)
//	mid := value.Lerp(from, to, 0.5) // 5
package value
