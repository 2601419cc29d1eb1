package scheduler

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Tickable is advanced once per delivered frame. Tick reports whether it
// still needs frames.
type Tickable interface {
	Tick(dt time.Duration) bool
}

// TickFunc adapts a function to Tickable.
type TickFunc func(dt time.Duration) bool

func (f TickFunc) Tick(dt time.Duration) bool { return f(dt) }

// Config controls frame pacing.
type Config struct {
	// TargetFPS caps the tick rate. Zero disables throttling.
	TargetFPS float64 `yaml:"target_fps" json:"target_fps"`
}

func DefaultConfig() Config {
	return Config{TargetFPS: 60}
}

func (c Config) Validate() error {
	if math.IsNaN(c.TargetFPS) || math.IsInf(c.TargetFPS, 0) || c.TargetFPS < 0 {
		return fmt.Errorf("scheduler: target_fps must be a non-negative number, got %g", c.TargetFPS)
	}
	return nil
}

// Interval is the minimum spacing between ticks, or zero when unthrottled.
func (c Config) Interval() time.Duration {
	if c.TargetFPS <= 0 || math.IsNaN(c.TargetFPS) || math.IsInf(c.TargetFPS, 0) {
		return 0
	}
	return time.Duration(float64(time.Second) / c.TargetFPS)
}

// Stats counts scheduler activity since construction.
type Stats struct {
	Ticks     uint64
	Throttled uint64
	Requests  uint64
	LastDelta time.Duration
	LastTick  time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithConfig(c Config) Option {
	return func(s *Scheduler) { s.cfg = c }
}

// WithErrorHandler receives frame-request failures that stop a running
// scheduler. Failures from Start are returned instead.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scheduler) { s.onError = fn }
}

// Scheduler turns one-shot frame requests into a stream of Tick(dt) calls
// for a single target. At most one frame request or pacing timer is
// outstanding at any time, so ticks never overlap. A frame that arrives
// before the target interval has passed is held until the interval ends and
// the tick runs from the pacing timer.
type Scheduler struct {
	source  FrameSource
	target  Tickable
	clock   Clock
	cfg     Config
	onError func(error)

	mu      sync.Mutex
	running bool
	rearm   bool
	gen     uint64
	last    time.Time
	cancel  func()
	stats   Stats
}

func New(source FrameSource, target Tickable, opts ...Option) *Scheduler {
	s := &Scheduler{
		source: source,
		target: target,
		clock:  RealClock(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers for frames. While already running it only guarantees that
// the tick in flight, if any, does not end the run. The first tick measures
// its delta from the Start call.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.rearm = true
		return nil
	}
	if s.source == nil {
		return fmt.Errorf("scheduler: no frame source")
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.gen++
	s.running = true
	s.last = s.clock.Now()
	if err := s.request(s.gen); err != nil {
		s.running = false
		return fmt.Errorf("scheduler: request frame: %w", err)
	}
	return nil
}

// Stop deregisters the pending frame request or pacing timer. A tick already
// in flight finishes but schedules nothing further.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	s.release()
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// request must be called with s.mu held.
func (s *Scheduler) request(gen uint64) error {
	s.stats.Requests++
	cancel, err := s.source.RequestFrame(func() { s.frame(gen) })
	if err != nil {
		return err
	}
	s.cancel = cancel
	return nil
}

func (s *Scheduler) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) frame(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.cancel = nil

	now := s.clock.Now()
	if wait := s.cfg.Interval() - now.Sub(s.last); wait > 0 {
		// Early frame: the pacing timer delivers the tick at the deadline
		// itself, so the host period is not added on top of the interval.
		s.stats.Throttled++
		timer := s.clock.AfterFunc(wait, func() { s.paced(gen) })
		s.cancel = func() { timer.Stop() }
		s.mu.Unlock()
		return
	}
	s.tick(gen, now)
}

func (s *Scheduler) paced(gen uint64) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	s.tick(gen, s.clock.Now())
}

// tick must be called with s.mu held. It releases the lock around the target
// call and on return.
func (s *Scheduler) tick(gen uint64, now time.Time) {
	elapsed := now.Sub(s.last)
	if elapsed < 0 {
		elapsed = 0
	}
	s.last = now
	s.rearm = false
	s.stats.Ticks++
	s.stats.LastDelta = elapsed
	s.stats.LastTick = now
	s.mu.Unlock()

	active := s.target.Tick(elapsed)

	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if !active && !s.rearm {
		s.running = false
		s.gen++
		s.mu.Unlock()
		return
	}
	err := s.request(gen)
	if err != nil {
		s.running = false
		s.gen++
	}
	s.mu.Unlock()

	if err != nil {
		s.fail(err)
	}
}

func (s *Scheduler) fail(err error) {
	if s.onError != nil {
		s.onError(fmt.Errorf("scheduler: request frame: %w", err))
	}
}
