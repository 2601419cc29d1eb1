package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/config"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/scheduler"
	"github.com/san-kum/motion/internal/stream"
	"github.com/san-kum/motion/internal/value"
	"github.com/san-kum/motion/internal/viz"
)

// session plays a plan against a host frame source. Replay starts over with
// a fresh Motion so the value returns to the initial one.
type session[T value.Animatable[T]] struct {
	plan    *plan[T]
	source  scheduler.FrameSource
	onStart func(*motion.Motion[T]) func()

	mu      sync.Mutex
	m       *motion.Motion[T]
	cleanup func()
}

func (p *plan[T]) newSession(source scheduler.FrameSource, onStart func(*motion.Motion[T]) func()) (*session[T], error) {
	s := &session[T]{plan: p, source: source, onStart: onStart}
	if err := s.Replay(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session[T]) Replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()

	m, err := motion.New(s.plan.initial, s.source,
		motion.WithSchedulerConfig(s.plan.cfg.Engine.Scheduler()),
		motion.WithTuning(s.plan.cfg.Engine.Tuning()),
		motion.WithDiagnostics(func(e anim.Event) { log.Printf("motion: %s", e) }),
	)
	if err != nil {
		return err
	}
	if s.onStart != nil {
		s.cleanup = s.onStart(m)
	}
	s.m = m
	return m.AnimateSequence(s.plan.seq)
}

// release must be called with s.mu held.
func (s *session[T]) release() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	if s.m != nil {
		s.m.Close()
		s.m = nil
	}
}

func (s *session[T]) current() *motion.Motion[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m
}

func (s *session[T]) Frame() viz.Frame {
	if m := s.current(); m != nil {
		return viz.Sample(m)
	}
	return viz.Frame{}
}

func (s *session[T]) Stop() {
	if m := s.current(); m != nil {
		m.Stop()
	}
}

func (s *session[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

func (s *session[T]) status() any {
	f := s.Frame()
	var step any
	if m := s.current(); m != nil {
		if i, ok := m.Step(); ok {
			step = i
		}
	}
	return map[string]any{
		"phase":    f.Phase.String(),
		"values":   f.Values,
		"target":   f.Target,
		"progress": f.Progress,
		"loops":    f.Loops,
		"step":     step,
	}
}

func (s *session[T]) command(cmd stream.Command) error {
	switch cmd.Type {
	case "replay":
		return s.Replay()
	case "stop":
		s.Stop()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
}

// frameInterval is the host frame period for interactive playback. The
// scheduler still throttles to target_fps on top of it.
func (p *plan[T]) frameInterval() time.Duration {
	if d := p.cfg.Engine.FrameInterval; d > 0 {
		return d
	}
	return config.DefaultFrameInterval
}

func (p *plan[T]) live(name string) (viz.Model, error) {
	source := scheduler.NewManualSource()
	s, err := p.newSession(source, nil)
	if err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(name, p.cfg.Animation.Kind, p.cols, source, s).WithInterval(p.frameInterval()), nil
}

// serve plays the plan on a timer source and streams frames until ctx is
// done.
func (p *plan[T]) serve(ctx context.Context, name, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	broker := stream.NewBroker()
	go broker.Run(ctx)

	source := scheduler.NewTimerSource(scheduler.RealClock(), p.frameInterval())
	defer source.Close()

	s, err := p.newSession(source, func(m *motion.Motion[T]) func() {
		return stream.Publish(broker, name, m)
	})
	if err != nil {
		return err
	}
	defer s.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: stream.NewServer(broker,
			stream.WithStatus(s.status),
			stream.WithCommands(s.command),
		).Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Printf("serve: shutdown: %v", err)
		}
	}()

	fmt.Printf("streaming %s on ws://%s/ws\n", name, addr)
	log.Printf("serve: %s on %s", name, addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
