package anim

import "fmt"

// Phase is the lifecycle position of an animated value.
type Phase int

const (
	// Idle means no animation has been requested, or it was reset.
	Idle Phase = iota
	// Delayed means the configured delay is still counting down.
	Delayed
	// Running means the solver or interpolator is moving the value.
	Running
	// Completed means the value reached its target or was stopped.
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Delayed:
		return "delayed"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Active reports whether ticks still change the value.
func (p Phase) Active() bool {
	return p == Delayed || p == Running
}
