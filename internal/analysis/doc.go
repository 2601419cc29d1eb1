// Package analysis characterizes recorded animation traces.
//
//   - [Spectrum], [DominantFrequency]: oscillation content of a component
//   - [DampingRatio]: damping estimated from successive overshoot peaks
//   - [Crossings]: times a component passes through its resting value
//   - [PhasePortrait]: offset against velocity as ASCII art
//
// A spring with damping ratio below 1 shows a dominant frequency near its
// damped natural frequency and a DampingRatio close to its configured one:
//
//	zeta, ok := analysis.DampingRatio(offsets)
package analysis
