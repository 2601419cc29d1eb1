package sim

import (
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/scheduler"
)

// Config controls a headless run.
type Config struct {
	// FrameInterval is the spacing of host frames.
	FrameInterval time.Duration `yaml:"frame_interval" json:"frame_interval"`
	// MaxDuration stops the run even if the animation is still active.
	MaxDuration time.Duration `yaml:"max_duration" json:"max_duration"`
	// TargetFPS is passed to the scheduler; zero disables throttling.
	TargetFPS float64 `yaml:"target_fps" json:"target_fps"`
}

func DefaultConfig() Config {
	return Config{
		FrameInterval: 16 * time.Millisecond,
		MaxDuration:   10 * time.Second,
	}
}

// Result is the trace of one run. Values and Velocities hold the components
// of the animated value at each tick; index 0 is the state before the first
// frame.
type Result struct {
	Times      []float64
	Values     [][]float64
	Velocities [][]float64
	Phases     []anim.Phase
	Ticks      int
	Completed  bool
	Metrics    map[string]float64
	Events     []anim.Event
	Stats      scheduler.Stats
}

// Final returns the last recorded components.
func (r *Result) Final() []float64 {
	if len(r.Values) == 0 {
		return nil
	}
	return r.Values[len(r.Values)-1]
}

// Duration is the time of the last recorded tick, in seconds.
func (r *Result) Duration() float64 {
	if len(r.Times) == 0 {
		return 0
	}
	return r.Times[len(r.Times)-1]
}
