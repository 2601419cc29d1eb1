package anim

import (
	"math"
	"time"

	"github.com/san-kum/motion/internal/easing"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/value"
)

// State is the animation state machine for one value.
type State[T value.Animatable[T]] struct {
	current  T
	velocity T
	target   T
	start    T

	elapsed   time.Duration
	delayLeft time.Duration
	phase     Phase
	loops     uint32
	finished  bool

	cfg    *Config
	tuning Tuning
	solver *spring.Solver[T]
	posTol float64
	velTol float64

	listeners      map[int]func(T)
	phaseListeners map[int]func(Phase)
	nextListenerID int
	diagnostics    func(Event)
	dispatch       func(func())
}

// NewState creates an idle state resting at initial.
func NewState[T value.Animatable[T]](initial T, tuning Tuning) (*State[T], error) {
	tuning = tuning.withDefaults()
	solver, err := spring.NewSolver[T](tuning.Solver)
	if err != nil {
		return nil, &ConfigError{Field: "integrator", Cause: err}
	}
	return &State[T]{
		current:        initial,
		target:         initial,
		start:          initial,
		phase:          Idle,
		tuning:         tuning,
		solver:         solver,
		listeners:      make(map[int]func(T)),
		phaseListeners: make(map[int]func(Phase)),
	}, nil
}

// AnimateTo starts moving toward target. On error the state is unchanged.
func (s *State[T]) AnimateTo(target T, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !target.IsValid() {
		return &ConfigError{Field: "target", Reason: "contains NaN or Inf"}
	}

	s.start = s.current
	s.target = target
	s.cfg = cfg
	s.loops = 0
	s.finished = false
	s.posTol, s.velTol = spring.Tolerances(target, s.tuning.EpsilonScale)
	s.begin()
	return nil
}

// begin enters the first phase of a run: Delayed when a delay is configured,
// Running otherwise.
func (s *State[T]) begin() {
	s.elapsed = 0
	s.velocity = value.Zero[T]()
	if d := s.cfg.Delay(); d > 0 {
		s.delayLeft = d
		s.setPhase(Delayed)
		return
	}
	s.delayLeft = 0
	s.startRunning()
}

func (s *State[T]) startRunning() {
	if m, ok := s.cfg.Mode().(SpringMode); ok && m.Spring.Velocity != 0 {
		s.velocity = value.Direction(s.start, s.target).Scale(m.Spring.Velocity)
	}
	s.setPhase(Running)
}

// Tick advances the state by dt and reports whether it is still active.
// Ticks on an idle or completed state change nothing.
func (s *State[T]) Tick(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}

	switch s.phase {
	case Idle, Completed:
		return false
	case Delayed:
		if dt < s.delayLeft {
			s.delayLeft -= dt
			return true
		}
		dt -= s.delayLeft
		s.delayLeft = 0
		s.startRunning()
		if dt == 0 {
			return true
		}
	}

	s.run(dt)
	return s.phase.Active()
}

func (s *State[T]) run(dt time.Duration) {
	s.elapsed += dt

	switch m := s.cfg.Mode().(type) {
	case SpringMode:
		x, v, _ := s.solver.Advance(s.current, s.velocity, s.target, m.Spring, dt.Seconds())
		if s.diverged(x, v) {
			s.snap()
			s.report(EventDiverged)
			s.complete()
			return
		}
		s.current, s.velocity = x, v
		if spring.Settled(x, v, s.target, s.posTol, s.velTol) {
			s.snap()
			s.runFinished()
			return
		}
		if s.elapsed >= s.tuning.MaxDuration {
			s.snap()
			s.report(EventCutoff)
			s.runFinished()
			return
		}
	case TweenMode:
		v, done := easing.Interpolate(s.start, s.target, s.elapsed, m.Tween.Duration, m.Tween.Easing)
		s.current = v
		if done {
			s.velocity = value.Zero[T]()
			s.notify()
			s.runFinished()
			return
		}
	}
	s.notify()
}

func (s *State[T]) diverged(x, v T) bool {
	if !x.IsValid() || !v.IsValid() {
		return true
	}
	bound := s.tuning.DivergenceBound * math.Max(1, value.Distance(s.start, s.target))
	return value.Distance(x, s.target) > bound || v.Magnitude() > bound
}

func (s *State[T]) snap() {
	s.current = s.target
	s.velocity = value.Zero[T]()
	s.notify()
}

// runFinished applies the loop policy once a run reaches its target.
func (s *State[T]) runFinished() {
	loop := s.cfg.Loop()
	switch loop.Kind {
	case LoopInfinite:
		if s.loops < math.MaxUint32 {
			s.loops++
		}
		s.restart()
	case LoopTimes:
		if s.loops+1 < loop.Count {
			s.loops++
			s.restart()
			return
		}
		s.complete()
	default:
		s.complete()
	}
}

// restart passes through Completed so listeners observe the iteration
// boundary, then replays the run from the start value.
func (s *State[T]) restart() {
	s.setPhase(Completed)
	s.current = s.start
	s.notify()
	s.begin()
}

func (s *State[T]) complete() {
	s.setPhase(Completed)
	if s.finished {
		return
	}
	s.finished = true
	if fn := s.cfg.OnComplete(); fn != nil {
		s.Dispatch(fn)
	}
}

// Stop freezes the value where it is and discards pending delay and loop
// iterations. OnComplete does not fire.
func (s *State[T]) Stop() {
	if !s.phase.Active() {
		return
	}
	s.velocity = value.Zero[T]()
	s.delayLeft = 0
	s.finished = true
	s.setPhase(Completed)
}

// Reset stops the animation and returns to the start value of the last run.
func (s *State[T]) Reset() {
	s.Stop()
	s.current = s.start
	s.target = s.start
	s.elapsed = 0
	s.loops = 0
	s.setPhase(Idle)
	s.notify()
}

// Value returns the current value, clamped for display when T has a range.
func (s *State[T]) Value() T {
	return display(s.current)
}

func (s *State[T]) Velocity() T            { return s.velocity }
func (s *State[T]) Target() T              { return s.target }
func (s *State[T]) Start() T               { return s.start }
func (s *State[T]) Phase() Phase           { return s.phase }
func (s *State[T]) Elapsed() time.Duration { return s.elapsed }
func (s *State[T]) LoopCount() uint32      { return s.loops }
func (s *State[T]) Config() *Config        { return s.cfg }
func (s *State[T]) Tuning() Tuning         { return s.tuning }

// IsCompleted reports whether the state has reached terminal completion.
func (s *State[T]) IsCompleted() bool { return s.phase == Completed }

// IsActive reports whether further ticks will change the value.
func (s *State[T]) IsActive() bool { return s.phase.Active() }

// AddListener registers fn for every value change. Returns an unsubscribe func.
func (s *State[T]) AddListener(fn func(T)) func() {
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// AddPhaseListener registers fn for every phase transition, including the
// Completed step between loop iterations. Returns an unsubscribe func.
func (s *State[T]) AddPhaseListener(fn func(Phase)) func() {
	id := s.nextListenerID
	s.nextListenerID++
	s.phaseListeners[id] = fn
	return func() { delete(s.phaseListeners, id) }
}

// SetDiagnostics installs a sink for self-healed numeric events.
func (s *State[T]) SetDiagnostics(fn func(Event)) {
	s.diagnostics = fn
}

// SetDispatcher routes completion callbacks through fn instead of running
// them inline. Owners that hold a lock while ticking use it to run callbacks
// after unlocking.
func (s *State[T]) SetDispatcher(fn func(func())) {
	s.dispatch = fn
}

// Dispatch runs fn through the dispatcher, or inline when none is set.
func (s *State[T]) Dispatch(fn func()) {
	if s.dispatch != nil {
		s.dispatch(fn)
		return
	}
	fn()
}

func (s *State[T]) report(kind EventKind) {
	if s.diagnostics != nil {
		s.diagnostics(Event{Kind: kind, Elapsed: s.elapsed, Loop: s.loops})
	}
}

func (s *State[T]) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	for _, fn := range s.phaseListeners {
		fn(p)
	}
}

func (s *State[T]) notify() {
	if len(s.listeners) == 0 {
		return
	}
	v := display(s.current)
	for _, fn := range s.listeners {
		fn(v)
	}
}

func display[T value.Animatable[T]](v T) T {
	if c, ok := any(v).(value.Clamper[T]); ok {
		return c.Clamp()
	}
	return v
}
