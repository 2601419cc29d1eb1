package scheduler_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motion/internal/scheduler"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder is a Tickable that stays active for a fixed number of ticks.
type recorder struct {
	deltas []time.Duration
	limit  int
	onTick func()
}

func (r *recorder) Tick(dt time.Duration) bool {
	r.deltas = append(r.deltas, dt)
	if r.onTick != nil {
		r.onTick()
	}
	return r.limit <= 0 || len(r.deltas) < r.limit
}

// flakySource grants a fixed number of requests and then fails.
type flakySource struct {
	inner  *scheduler.ManualSource
	grants int
}

func (f *flakySource) RequestFrame(cb scheduler.FrameCallback) (func(), error) {
	if f.grants == 0 {
		return nil, scheduler.ErrSourceClosed
	}
	f.grants--
	return f.inner.RequestFrame(cb)
}

var _ = Describe("Scheduler", func() {
	var (
		clock  *scheduler.FakeClock
		source *scheduler.ManualSource
		target *recorder
	)

	BeforeEach(func() {
		clock = scheduler.NewFakeClock(epoch)
		source = scheduler.NewManualSource()
		target = &recorder{}
	})

	newScheduler := func(fps float64, opts ...scheduler.Option) *scheduler.Scheduler {
		opts = append([]scheduler.Option{
			scheduler.WithClock(clock),
			scheduler.WithConfig(scheduler.Config{TargetFPS: fps}),
		}, opts...)
		return scheduler.New(source, target, opts...)
	}

	Describe("lifecycle", func() {
		It("requests exactly one frame on start", func() {
			s := newScheduler(0)
			Expect(s.Start()).To(Succeed())
			Expect(s.Start()).To(Succeed())
			Expect(s.Running()).To(BeTrue())
			Expect(source.Pending()).To(Equal(1))
		})

		It("measures the delta between frames", func() {
			s := newScheduler(0)
			Expect(s.Start()).To(Succeed())

			clock.Advance(16 * time.Millisecond)
			Expect(source.Pump()).To(Equal(1))
			clock.Advance(33 * time.Millisecond)
			Expect(source.Pump()).To(Equal(1))

			Expect(target.deltas).To(Equal([]time.Duration{16 * time.Millisecond, 33 * time.Millisecond}))
			Expect(s.Stats().Ticks).To(BeEquivalentTo(2))
			Expect(s.Stats().LastDelta).To(Equal(33 * time.Millisecond))
		})

		It("deregisters once the target goes idle", func() {
			target.limit = 3
			s := newScheduler(0)
			Expect(s.Start()).To(Succeed())

			for i := 0; i < 10; i++ {
				clock.Advance(16 * time.Millisecond)
				source.Pump()
			}

			Expect(target.deltas).To(HaveLen(3))
			Expect(s.Running()).To(BeFalse())
			Expect(source.Pending()).To(BeZero())
		})

		It("cancels the pending frame on stop", func() {
			s := newScheduler(0)
			Expect(s.Start()).To(Succeed())
			s.Stop()

			Expect(source.Pending()).To(BeZero())
			clock.Advance(16 * time.Millisecond)
			Expect(source.Pump()).To(BeZero())
			Expect(target.deltas).To(BeEmpty())
		})

		It("schedules nothing after a stop issued during a tick", func() {
			s := newScheduler(0)
			target.onTick = func() { s.Stop() }
			Expect(s.Start()).To(Succeed())

			clock.Advance(16 * time.Millisecond)
			source.Pump()

			Expect(target.deltas).To(HaveLen(1))
			Expect(s.Running()).To(BeFalse())
			Expect(source.Pending()).To(BeZero())
		})

		It("keeps running when restarted during the final tick", func() {
			target.limit = 1
			s := newScheduler(0)
			target.onTick = func() { Expect(s.Start()).To(Succeed()) }
			Expect(s.Start()).To(Succeed())

			clock.Advance(16 * time.Millisecond)
			source.Pump()

			Expect(s.Running()).To(BeTrue())
			Expect(source.Pending()).To(Equal(1))
		})

		It("can be restarted after stopping", func() {
			s := newScheduler(0)
			Expect(s.Start()).To(Succeed())
			s.Stop()
			Expect(s.Start()).To(Succeed())

			clock.Advance(10 * time.Millisecond)
			Expect(source.Pump()).To(Equal(1))
			Expect(target.deltas).To(HaveLen(1))
		})
	})

	Describe("pacing", func() {
		It("throttles a source that fires faster than the target rate", func() {
			s := newScheduler(60)
			Expect(s.Start()).To(Succeed())

			for i := 0; i < 250; i++ {
				clock.Advance(4 * time.Millisecond)
				source.Pump()
			}

			interval := scheduler.Config{TargetFPS: 60}.Interval()
			Expect(len(target.deltas)).To(BeNumerically("<=", 60))
			Expect(len(target.deltas)).To(BeNumerically(">=", 40))
			for _, dt := range target.deltas {
				Expect(dt).To(BeNumerically(">=", interval))
			}
			Expect(s.Stats().Throttled).To(BeNumerically(">", 0))
		})

		It("ticks once per slow frame with the measured delta", func() {
			s := newScheduler(60)
			Expect(s.Start()).To(Succeed())

			for i := 0; i < 5; i++ {
				clock.Advance(50 * time.Millisecond)
				Expect(source.Pump()).To(Equal(1))
			}

			Expect(target.deltas).To(HaveLen(5))
			for _, dt := range target.deltas {
				Expect(dt).To(Equal(50 * time.Millisecond))
			}
			Expect(s.Stats().Throttled).To(BeZero())
		})

		It("cancels the pacing delay on stop", func() {
			s := newScheduler(60)
			Expect(s.Start()).To(Succeed())

			clock.Advance(2 * time.Millisecond)
			source.Pump()
			Expect(clock.Pending()).To(Equal(1))

			s.Stop()
			Expect(clock.Pending()).To(BeZero())
			clock.Advance(time.Second)
			Expect(source.Pending()).To(BeZero())
			Expect(target.deltas).To(BeEmpty())
		})

		DescribeTable("paces a timer host toward the target rate",
			func(host time.Duration) {
				interval := scheduler.Config{TargetFPS: 60}.Interval()
				var deltas []time.Duration
				tick := scheduler.TickFunc(func(dt time.Duration) bool {
					deltas = append(deltas, dt)
					return true
				})
				s := scheduler.New(scheduler.NewTimerSource(clock, host), tick,
					scheduler.WithClock(clock),
					scheduler.WithConfig(scheduler.Config{TargetFPS: 60}),
				)
				Expect(s.Start()).To(Succeed())

				clock.Advance(time.Second)
				s.Stop()

				Expect(len(deltas)).To(BeNumerically(">=", 58))
				Expect(len(deltas)).To(BeNumerically("<=", 60))
				for _, dt := range deltas {
					Expect(dt).To(BeNumerically(">=", interval))
					Expect(dt).To(BeNumerically("<", interval+time.Millisecond))
				}
				Expect(s.Stats().LastTick).To(Equal(epoch.Add(time.Duration(len(deltas)) * deltas[0])))
			},
			Entry("16ms host", 16*time.Millisecond),
			Entry("host at the target interval", scheduler.Config{TargetFPS: 60}.Interval()),
			Entry("16.67ms host", 16670*time.Microsecond),
			Entry("10ms host", 10*time.Millisecond),
		)

		It("ticks a late host frame immediately", func() {
			s := newScheduler(60)
			Expect(s.Start()).To(Succeed())

			clock.Advance(20 * time.Millisecond)
			Expect(source.Pump()).To(Equal(1))
			Expect(target.deltas).To(Equal([]time.Duration{20 * time.Millisecond}))
			Expect(clock.Pending()).To(BeZero())
		})

		It("drives itself from a timer source", func() {
			timers := scheduler.NewTimerSource(clock, 4*time.Millisecond)
			s := scheduler.New(timers, target,
				scheduler.WithClock(clock),
				scheduler.WithConfig(scheduler.Config{TargetFPS: 60}),
			)
			Expect(s.Start()).To(Succeed())

			clock.Advance(time.Second)

			Expect(len(target.deltas)).To(BeNumerically("<=", 60))
			Expect(len(target.deltas)).To(BeNumerically(">=", 40))

			s.Stop()
			Expect(clock.Pending()).To(BeZero())
		})
	})

	Describe("errors", func() {
		It("reports an unavailable source from start", func() {
			source.Close()
			s := newScheduler(0)
			err := s.Start()
			Expect(errors.Is(err, scheduler.ErrSourceClosed)).To(BeTrue())
			Expect(s.Running()).To(BeFalse())
		})

		It("rejects an invalid target rate", func() {
			s := newScheduler(-1)
			Expect(s.Start()).NotTo(Succeed())
			Expect(s.Running()).To(BeFalse())
		})

		It("stops and reports when the source fails mid-run", func() {
			var reported error
			flaky := &flakySource{inner: source, grants: 2}
			s := scheduler.New(flaky, target,
				scheduler.WithClock(clock),
				scheduler.WithConfig(scheduler.Config{}),
				scheduler.WithErrorHandler(func(err error) { reported = err }),
			)
			Expect(s.Start()).To(Succeed())

			for i := 0; i < 5; i++ {
				clock.Advance(16 * time.Millisecond)
				source.Pump()
			}

			Expect(target.deltas).To(HaveLen(2))
			Expect(s.Running()).To(BeFalse())
			Expect(errors.Is(reported, scheduler.ErrSourceClosed)).To(BeTrue())
		})
	})
})

var _ = Describe("FakeClock", func() {
	It("fires timers in due order, including ones armed while advancing", func() {
		clock := scheduler.NewFakeClock(epoch)
		var fired []string
		clock.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "b") })
		clock.AfterFunc(10*time.Millisecond, func() {
			fired = append(fired, "a")
			clock.AfterFunc(5*time.Millisecond, func() { fired = append(fired, "a2") })
		})
		stopped := clock.AfterFunc(15*time.Millisecond, func() { fired = append(fired, "x") })
		Expect(stopped.Stop()).To(BeTrue())

		clock.Advance(30 * time.Millisecond)

		Expect(fired).To(Equal([]string{"a", "a2", "b"}))
		Expect(clock.Now()).To(Equal(epoch.Add(30 * time.Millisecond)))
		Expect(stopped.Stop()).To(BeFalse())
	})
})
