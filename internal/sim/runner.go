package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/metrics"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/scheduler"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/value"
)

var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Runner drives a Motion with a manual frame source and a fake clock, so a
// run is deterministic and takes no wall-clock time.
type Runner[T value.Animatable[T]] struct {
	cfg     Config
	tuning  anim.Tuning
	metrics []metrics.Metric
}

func New[T value.Animatable[T]](cfg Config, tuning anim.Tuning) *Runner[T] {
	return &Runner[T]{
		cfg:     cfg,
		tuning:  tuning,
		metrics: make([]metrics.Metric, 0),
	}
}

func (r *Runner[T]) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

func (r *Runner[T]) Run(ctx context.Context, initial T, seq *sequence.Sequence[T]) (*Result, error) {
	if err := r.validateConfig(); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	clock := scheduler.NewFakeClock(epoch)
	source := scheduler.NewManualSource()

	m, err := motion.New(initial, source,
		motion.WithClock(clock),
		motion.WithSchedulerConfig(scheduler.Config{TargetFPS: r.cfg.TargetFPS}),
		motion.WithTuning(r.tuning),
		motion.WithDiagnostics(func(e anim.Event) { result.Events = append(result.Events, e) }),
	)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	for _, mt := range r.metrics {
		mt.Reset()
	}

	if err := m.AnimateSequence(seq); err != nil {
		return nil, err
	}
	r.record(result, m, 0)

	var elapsed time.Duration
	ticks := uint64(0)
	for m.Scheduling() && elapsed < r.cfg.MaxDuration {
		select {
		case <-ctx.Done():
			r.finish(result, m)
			return result, ctx.Err()
		default:
		}

		clock.Advance(r.cfg.FrameInterval)
		elapsed += r.cfg.FrameInterval
		source.Pump()

		// Paced ticks fire from the clock during Advance, so the sample is
		// stamped with the tick time rather than the host frame time.
		if st := m.SchedulerStats(); st.Ticks != ticks {
			ticks = st.Ticks
			r.record(result, m, st.LastTick.Sub(epoch))
		}
	}

	r.finish(result, m)
	return result, nil
}

func (r *Runner[T]) record(res *Result, m *motion.Motion[T], t time.Duration) {
	v, vel, target := m.Value(), m.Velocity(), m.Target()
	sample := metrics.Sample{
		Time:     t.Seconds(),
		Progress: value.Progress(m.Start(), v, target),
		Offset:   v.Sub(target).Components(),
		Velocity: vel.Components(),
	}
	for _, mt := range r.metrics {
		mt.Observe(sample)
	}

	res.Times = append(res.Times, sample.Time)
	res.Values = append(res.Values, v.Components())
	res.Velocities = append(res.Velocities, sample.Velocity)
	res.Phases = append(res.Phases, m.Phase())
}

func (r *Runner[T]) finish(res *Result, m *motion.Motion[T]) {
	res.Stats = m.SchedulerStats()
	res.Ticks = int(res.Stats.Ticks)
	res.Completed = m.IsCompleted()
	for _, mt := range r.metrics {
		res.Metrics[mt.Name()] = mt.Value()
	}
}

func (r *Runner[T]) validateConfig() error {
	if r.cfg.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", r.cfg.FrameInterval)
	}
	if r.cfg.MaxDuration <= 0 {
		return fmt.Errorf("max duration must be positive, got %v", r.cfg.MaxDuration)
	}
	if r.cfg.TargetFPS < 0 {
		return fmt.Errorf("target fps must not be negative, got %g", r.cfg.TargetFPS)
	}
	return nil
}
