package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/metrics"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/value"
)

// Compare runs seq once per integrator, concurrently, and returns the results
// in integrator order. newMetrics is called once per run since metrics carry
// state.
func Compare[T value.Animatable[T]](ctx context.Context, initial T, seq *sequence.Sequence[T], cfg Config, tuning anim.Tuning, integrators []string, newMetrics func() []metrics.Metric) ([]*Result, error) {
	results := make([]*Result, len(integrators))
	errs := make([]error, len(integrators))

	var wg sync.WaitGroup
	for i, name := range integrators {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			t := tuning
			t.Solver.Integrator = name

			r := New[T](cfg, t)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, initial, seq)
			if errs[idx] != nil {
				errs[idx] = fmt.Errorf("%s: %w", name, errs[idx])
			}
		}(i, name)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
