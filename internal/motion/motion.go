// Package motion is the handle collaborators hold for one animated value.
//
// A Motion owns an animation state, a sequence composer and a frame
// scheduler. AnimateTo registers for frames on the host's FrameSource; the
// registration is released when the animation finishes, on Stop, on Close,
// or when the Motion becomes unreachable.
//
// Callbacks (Subscribe, OnComplete, diagnostics) run after the internal lock
// is released, so they may call back into the Motion.
package motion

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/scheduler"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/value"
)

// ErrClosed is returned by operations on a closed Motion.
var ErrClosed = errors.New("motion: closed")

type options struct {
	clock       scheduler.Clock
	sched       scheduler.Config
	tuning      anim.Tuning
	diagnostics func(anim.Event)
}

type Option func(*options)

func WithClock(c scheduler.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithSchedulerConfig(c scheduler.Config) Option {
	return func(o *options) { o.sched = c }
}

func WithTuning(t anim.Tuning) Option {
	return func(o *options) { o.tuning = t }
}

// WithDiagnostics receives self-healed numeric events. Without it they are
// written to the standard logger.
func WithDiagnostics(fn func(anim.Event)) Option {
	return func(o *options) { o.diagnostics = fn }
}

// Motion is a handle to one animated value. It is safe for concurrent use.
type Motion[T value.Animatable[T]] struct {
	c *core[T]
}

type core[T value.Animatable[T]] struct {
	mu       sync.Mutex
	state    *anim.State[T]
	composer *sequence.Composer[T]
	sched    *scheduler.Scheduler
	closed   bool
	dirty    bool
	deferred []func()

	subs   map[int]func(T)
	nextID int
}

// New creates an idle Motion resting at initial. host supplies frames once
// an animation starts.
func New[T value.Animatable[T]](initial T, host scheduler.FrameSource, opts ...Option) (*Motion[T], error) {
	o := options{
		clock:  scheduler.RealClock(),
		sched:  scheduler.DefaultConfig(),
		tuning: anim.DefaultTuning(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.sched.Validate(); err != nil {
		return nil, err
	}

	state, err := anim.NewState(initial, o.tuning)
	if err != nil {
		return nil, err
	}
	c := &core[T]{
		state:    state,
		composer: sequence.NewComposer(state),
		subs:     make(map[int]func(T)),
	}
	c.sched = scheduler.New(host, c,
		scheduler.WithClock(o.clock),
		scheduler.WithConfig(o.sched),
		scheduler.WithErrorHandler(c.schedulerFailed),
	)

	diag := o.diagnostics
	if diag == nil {
		diag = func(e anim.Event) { log.Printf("motion: %s", e) }
	}
	state.SetDispatcher(func(fn func()) { c.deferred = append(c.deferred, fn) })
	state.SetDiagnostics(func(e anim.Event) {
		c.deferred = append(c.deferred, func() { diag(e) })
	})
	state.AddListener(func(T) { c.dirty = true })

	m := &Motion[T]{c: c}
	runtime.AddCleanup(m, func(c *core[T]) { c.close() }, c)
	return m, nil
}

// AnimateTo starts animating toward target. Configuration errors and frame
// registration failures are returned and leave the current animation as it
// was.
func (m *Motion[T]) AnimateTo(target T, cfg *anim.Config) error {
	c := m.c
	c.mu.Lock()
	err := c.animateTo(target, cfg)
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
	return err
}

func (c *core[T]) animateTo(target T, cfg *anim.Config) error {
	if c.closed {
		return ErrClosed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !target.IsValid() {
		return &anim.ConfigError{Field: "target", Reason: "contains NaN or Inf"}
	}
	if err := c.start(); err != nil {
		return err
	}
	c.composer.Cancel()
	if err := c.state.AnimateTo(target, cfg); err != nil {
		c.idle()
		return err
	}
	return nil
}

// AnimateSequence runs seq from the current value. Every step is validated
// before anything starts.
func (m *Motion[T]) AnimateSequence(seq *sequence.Sequence[T]) error {
	c := m.c
	c.mu.Lock()
	err := c.animateSequence(seq)
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
	return err
}

func (c *core[T]) animateSequence(seq *sequence.Sequence[T]) error {
	if c.closed {
		return ErrClosed
	}
	if err := seq.Validate(); err != nil {
		return err
	}
	if err := c.start(); err != nil {
		return err
	}
	if err := c.composer.Start(seq); err != nil {
		c.idle()
		return err
	}
	return nil
}

func (c *core[T]) start() error {
	if err := c.sched.Start(); err != nil {
		return fmt.Errorf("%w: %w", anim.ErrSchedulerUnavailable, err)
	}
	return nil
}

// idle releases the frame registration when nothing is animating.
func (c *core[T]) idle() {
	if !c.state.IsActive() {
		c.sched.Stop()
	}
}

// Tick implements scheduler.Tickable.
func (c *core[T]) Tick(dt time.Duration) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	active := c.composer.Tick(dt)
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
	return active
}

// drain collects deferred callbacks and a repaint notification. Must be
// called with c.mu held.
func (c *core[T]) drain() []func() {
	calls := c.deferred
	c.deferred = nil
	if c.dirty && len(c.subs) > 0 {
		v := c.state.Value()
		for _, fn := range c.subs {
			calls = append(calls, func() { fn(v) })
		}
	}
	c.dirty = false
	return calls
}

func (c *core[T]) run(calls []func()) {
	for _, fn := range calls {
		fn()
	}
}

func (c *core[T]) schedulerFailed(err error) {
	log.Printf("motion: %v", err)
	c.mu.Lock()
	c.composer.Cancel()
	c.state.Stop()
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
}

// Value returns the current value.
func (m *Motion[T]) Value() T {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.Value()
}

func (m *Motion[T]) Velocity() T {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.Velocity()
}

func (m *Motion[T]) Target() T {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.Target()
}

// Start is the value the current run began from.
func (m *Motion[T]) Start() T {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.Start()
}

func (m *Motion[T]) Phase() anim.Phase {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.Phase()
}

func (m *Motion[T]) LoopCount() uint32 {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.LoopCount()
}

// IsCompleted reports whether the last animation reached terminal
// completion or was stopped.
func (m *Motion[T]) IsCompleted() bool {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.state.IsCompleted()
}

// Step reports the index of the sequence step in progress. ok is false when
// no sequence is running, including after AnimateTo.
func (m *Motion[T]) Step() (index int, ok bool) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if !m.c.composer.Active() {
		return 0, false
	}
	return m.c.composer.Index(), true
}

// Scheduling reports whether a frame registration is held.
func (m *Motion[T]) Scheduling() bool {
	return m.c.sched.Running()
}

func (m *Motion[T]) SchedulerStats() scheduler.Stats {
	return m.c.sched.Stats()
}

// Stop freezes the value, abandons any sequence and releases the frame
// registration. OnComplete callbacks do not fire.
func (m *Motion[T]) Stop() {
	c := m.c
	c.mu.Lock()
	c.composer.Cancel()
	c.state.Stop()
	c.sched.Stop()
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
}

// Reset stops and returns to the start value of the last animation.
func (m *Motion[T]) Reset() {
	c := m.c
	c.mu.Lock()
	c.composer.Cancel()
	c.state.Reset()
	c.sched.Stop()
	calls := c.drain()
	c.mu.Unlock()
	c.run(calls)
}

// Subscribe registers fn for repaint notifications carrying the new value.
// It returns an unsubscribe func.
func (m *Motion[T]) Subscribe(fn func(T)) func() {
	c := m.c
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close stops the animation and releases the frame registration for good.
// It is safe to call more than once.
func (m *Motion[T]) Close() error {
	m.c.close()
	return nil
}

func (c *core[T]) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.composer.Cancel()
	c.state.Stop()
	c.sched.Stop()
	clear(c.subs)
	c.deferred = nil
}
