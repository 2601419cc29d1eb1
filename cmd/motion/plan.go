package main

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/motion/internal/config"
	"github.com/san-kum/motion/internal/metrics"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/value"
	"github.com/san-kum/motion/internal/viz"
)

// runner is the kind-erased view of a plan.
type runner interface {
	columns() []string
	segments() int
	run(ctx context.Context) (*sim.Result, error)
	compare(ctx context.Context, integrators []string) ([]*sim.Result, error)
	live(name string) (viz.Model, error)
	serve(ctx context.Context, name, addr string) error
}

// newRunner resolves the animation kind of cfg to a typed plan.
func newRunner(cfg *config.Config) (runner, error) {
	switch cfg.Animation.Kind {
	case config.KindFloat, "":
		return newPlan(cfg, config.Value.Float, func(value.Float) []string { return []string{"value"} })
	case config.KindVec:
		return newPlan(cfg, config.Value.Vec, vecColumns)
	case config.KindColor:
		return newPlan(cfg, config.Value.Color, func(value.Color) []string { return []string{"r", "g", "b", "a"} })
	case config.KindTransform:
		return newPlan(cfg, config.Value.Transform, func(value.Transform) []string { return []string{"x", "y", "scale", "rotation"} })
	default:
		return nil, fmt.Errorf("%w: animation.kind %q", config.ErrInvalid, cfg.Animation.Kind)
	}
}

func vecColumns(v value.Vec) []string {
	names := []string{"x", "y", "z", "w"}
	cols := make([]string, len(v))
	for i := range cols {
		if i < len(names) {
			cols[i] = names[i]
		} else {
			cols[i] = fmt.Sprintf("v%d", i)
		}
	}
	return cols
}

// plan is a parsed animation file for one value type.
type plan[T value.Animatable[T]] struct {
	cfg     *config.Config
	initial T
	seq     *sequence.Sequence[T]
	cols    []string
}

func newPlan[T value.Animatable[T]](cfg *config.Config, conv func(config.Value) (T, error), names func(T) []string) (*plan[T], error) {
	initial, err := conv(cfg.Animation.From)
	if err != nil {
		return nil, fmt.Errorf("animation.from: %w", err)
	}
	seq, err := config.Sequence(cfg.Animation, conv)
	if err != nil {
		return nil, err
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return &plan[T]{cfg: cfg, initial: initial, seq: seq, cols: names(initial)}, nil
}

func (p *plan[T]) columns() []string { return p.cols }
func (p *plan[T]) segments() int     { return p.seq.Len() }

func (p *plan[T]) run(ctx context.Context) (*sim.Result, error) {
	r := sim.New[T](p.cfg.Engine.Run(), p.cfg.Engine.Tuning())
	for _, m := range p.metrics() {
		r.AddMetric(m)
	}
	return r.Run(ctx, p.initial, p.seq)
}

func (p *plan[T]) compare(ctx context.Context, integrators []string) ([]*sim.Result, error) {
	return sim.Compare(ctx, p.initial, p.seq, p.cfg.Engine.Run(), p.cfg.Engine.Tuning(), integrators, p.metrics)
}

// metrics returns a fresh metric set. Energy drift is tracked when the first
// segment is a spring.
func (p *plan[T]) metrics() []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewSettleTime(p.settleTolerance()),
		metrics.NewOvershoot(),
		metrics.NewTickCount(),
		metrics.NewPeakVelocity(),
	}
	if segs := p.cfg.Animation.Segments; len(segs) > 0 && segs[0].Spring != nil {
		if c, err := segs[0].Spring.Resolve(); err == nil {
			ms = append(ms, metrics.NewEnergyDrift(c))
		}
	}
	return ms
}

// settleTolerance is 1% of the longest step, but never below the value's own
// settle epsilon.
func (p *plan[T]) settleTolerance() float64 {
	span, prev := 0.0, p.initial
	for _, step := range p.seq.Steps() {
		span = math.Max(span, value.Distance(prev, step.Target))
		prev = step.Target
	}
	return math.Max(span*0.01, p.initial.Epsilon())
}
