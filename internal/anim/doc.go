// Package anim implements the per-value animation state machine.
//
// A [State] owns the current value, velocity, target and phase of one animated
// value and advances them on every [State.Tick]:
//
//	Idle ──AnimateTo──► Delayed ──delay elapsed──► Running ──settled──► Completed
//	                       ▲                                               │
//	                       └──────────── loop restart ─────────────────────┘
//
// Running delegates to the spring solver ([SpringMode]) or the tween
// interpolator ([TweenMode]). On completion the [LoopMode] decides whether to
// restart from the start value or finish; OnComplete fires once, on the final
// iteration.
//
// [Config] values are immutable after construction and may be shared between
// loop iterations and between states.
//
// # Thread Safety
//
// State is NOT thread-safe. It expects a single writer: the frame scheduler's
// tick callback. See package motion for a synchronized handle.
package anim
