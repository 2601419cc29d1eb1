// Package viz is the terminal preview for animations.
//
// The live [Model] is a Bubble Tea program that acts as the host frame
// source: every UI tick pumps a [scheduler.ManualSource], so the animation
// advances in step with the redraw. [Picker] lists presets and launches a
// live model for the selected one.
//
// # Key Bindings
//
//	R     - Replay from the initial value
//	S     - Stop the animation where it is
//	T     - Cycle color themes
//	X/Y   - Rotate the 3D view (shift reverses)
//	+/-   - Zoom the 3D view
//	?     - Show help overlay
//	Esc   - Back to the preset list
package viz
