package anim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig indicates an animation was rejected before starting.
	ErrInvalidConfig = errors.New("anim: invalid configuration")

	// ErrSchedulerUnavailable indicates the host could not supply frames.
	ErrSchedulerUnavailable = errors.New("anim: frame scheduler unavailable")
)

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("anim: %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("anim: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidConfig, e.Cause}
	}
	return []error{ErrInvalidConfig}
}

// EventKind classifies diagnostic events.
type EventKind int

const (
	// EventDiverged means the spring left its sanity bound and was snapped to
	// the target.
	EventDiverged EventKind = iota
	// EventCutoff means a run hit the maximum duration and was forced to settle.
	EventCutoff
)

func (k EventKind) String() string {
	switch k {
	case EventDiverged:
		return "diverged"
	case EventCutoff:
		return "cutoff"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a self-healed numeric problem, reported for diagnostics only.
type Event struct {
	Kind    EventKind
	Elapsed time.Duration
	Loop    uint32
}

func (e Event) String() string {
	return fmt.Sprintf("%s after %v (loop %d)", e.Kind, e.Elapsed, e.Loop)
}
