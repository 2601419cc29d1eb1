package motion_test

import (
	"errors"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motion/internal/anim"
	"github.com/san-kum/motion/internal/easing"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/scheduler"
	"github.com/san-kum/motion/internal/sequence"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/value"
)

const frame = 16 * time.Millisecond

var _ = Describe("Motion", func() {
	var (
		clock  *scheduler.FakeClock
		source *scheduler.ManualSource
		events []anim.Event
	)

	BeforeEach(func() {
		clock = scheduler.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		source = scheduler.NewManualSource()
		events = nil
	})

	newFloat := func(initial float64) *motion.Motion[value.Float] {
		m, err := motion.New(value.Float(initial), source,
			motion.WithClock(clock),
			motion.WithSchedulerConfig(scheduler.Config{}),
			motion.WithDiagnostics(func(e anim.Event) { events = append(events, e) }),
		)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(m.Close)
		return m
	}

	pump := func(n int) {
		for i := 0; i < n; i++ {
			clock.Advance(frame)
			source.Pump()
		}
	}

	pumpUntilIdle := func() int {
		n := 0
		for source.Pending() > 0 && n < 5000 {
			clock.Advance(frame)
			source.Pump()
			n++
		}
		return n
	}

	springTo := func(opts ...anim.Option) *anim.Config {
		return anim.NewConfig(anim.Spring(spring.Default()), opts...)
	}

	Describe("AnimateTo", func() {
		It("registers for frames and releases them when settled", func() {
			m := newFloat(0)
			completions := 0
			Expect(m.AnimateTo(1, springTo(anim.WithOnComplete(func() { completions++ })))).To(Succeed())
			Expect(source.Pending()).To(Equal(1))
			Expect(m.Scheduling()).To(BeTrue())

			ticks := pumpUntilIdle()

			Expect(ticks).To(BeNumerically("~", 47, 13))
			Expect(m.IsCompleted()).To(BeTrue())
			Expect(m.Value()).To(Equal(value.Float(1)))
			Expect(m.Scheduling()).To(BeFalse())
			Expect(completions).To(Equal(1))
			Expect(events).To(BeEmpty())
		})

		It("rejects invalid configuration without registering", func() {
			m := newFloat(0)
			bad := anim.NewConfig(anim.Spring(spring.Config{Stiffness: 0, Damping: 1, Mass: 1}))

			err := m.AnimateTo(1, bad)

			Expect(errors.Is(err, anim.ErrInvalidConfig)).To(BeTrue())
			Expect(source.Pending()).To(BeZero())
			Expect(m.Phase()).To(Equal(anim.Idle))
		})

		It("reports an unavailable frame source and stays idle", func() {
			source.Close()
			m := newFloat(0)

			err := m.AnimateTo(1, springTo())

			Expect(errors.Is(err, anim.ErrSchedulerUnavailable)).To(BeTrue())
			Expect(errors.Is(err, scheduler.ErrSourceClosed)).To(BeTrue())
			Expect(m.Phase()).To(Equal(anim.Idle))
			Expect(m.Value()).To(Equal(value.Float(0)))
		})

		It("keeps a single registration when retargeted mid-run", func() {
			m := newFloat(0)
			Expect(m.AnimateTo(10, springTo())).To(Succeed())
			pump(5)
			Expect(m.AnimateTo(-10, springTo())).To(Succeed())

			Expect(source.Pending()).To(Equal(1))
			pumpUntilIdle()
			Expect(m.Value()).To(Equal(value.Float(-10)))
		})

		It("allows on_complete to start the next animation", func() {
			m := newFloat(0)
			back := anim.NewConfig(anim.Tween(100*time.Millisecond, easing.Linear))
			forth := anim.NewConfig(anim.Tween(100*time.Millisecond, easing.Linear),
				anim.WithOnComplete(func() {
					Expect(m.AnimateTo(0, back)).To(Succeed())
				}))
			Expect(m.AnimateTo(5, forth)).To(Succeed())

			pumpUntilIdle()

			Expect(m.Value()).To(Equal(value.Float(0)))
			Expect(m.IsCompleted()).To(BeTrue())
		})
	})

	Describe("Stop", func() {
		It("freezes the value and deregisters", func() {
			m := newFloat(0)
			completions := 0
			Expect(m.AnimateTo(1, springTo(anim.WithOnComplete(func() { completions++ })))).To(Succeed())
			pump(5)

			m.Stop()
			frozen := m.Value()

			Expect(source.Pending()).To(BeZero())
			pump(10)
			Expect(m.Value()).To(Equal(frozen))
			Expect(m.IsCompleted()).To(BeTrue())
			Expect(completions).To(BeZero())
		})

		It("ends an infinite loop", func() {
			m := newFloat(0)
			cfg := anim.NewConfig(anim.Tween(50*time.Millisecond, easing.SineInOut), anim.WithLoop(anim.Forever()))
			Expect(m.AnimateTo(1, cfg)).To(Succeed())

			pump(500)
			Expect(m.IsCompleted()).To(BeFalse())
			Expect(m.LoopCount()).To(BeNumerically(">", 100))

			m.Stop()
			Expect(m.IsCompleted()).To(BeTrue())
			Expect(source.Pending()).To(BeZero())
		})
	})

	Describe("Reset", func() {
		It("returns to the start value", func() {
			m := newFloat(2)
			Expect(m.AnimateTo(8, anim.NewConfig(anim.Tween(time.Second, easing.Linear)))).To(Succeed())
			pump(10)

			m.Reset()

			Expect(m.Value()).To(Equal(value.Float(2)))
			Expect(m.Phase()).To(Equal(anim.Idle))
			Expect(source.Pending()).To(BeZero())
		})
	})

	Describe("sequences", func() {
		It("runs every step and fires the sequence callback", func() {
			m := newFloat(0)
			done := 0
			seq := sequence.New[value.Float]().
				Then(1, anim.NewConfig(anim.Tween(80*time.Millisecond, easing.QuadOut))).
				Then(4, springTo()).
				OnComplete(func() { done++ })

			Expect(m.AnimateSequence(seq)).To(Succeed())
			step, ok := m.Step()
			Expect(ok).To(BeTrue())
			Expect(step).To(BeZero())

			for i := 0; i < 100 && step == 0; i++ {
				pump(1)
				step, ok = m.Step()
			}
			Expect(ok).To(BeTrue())
			Expect(step).To(Equal(1))

			pumpUntilIdle()
			Expect(done).To(Equal(1))
			Expect(m.Value()).To(Equal(value.Float(4)))
			_, ok = m.Step()
			Expect(ok).To(BeFalse())
		})

		It("is abandoned by a direct AnimateTo", func() {
			m := newFloat(0)
			done := false
			seq := sequence.New[value.Float]().
				Then(1, springTo()).
				Then(2, springTo()).
				OnComplete(func() { done = true })
			Expect(m.AnimateSequence(seq)).To(Succeed())
			pump(3)

			Expect(m.AnimateTo(-1, springTo())).To(Succeed())
			_, ok := m.Step()
			Expect(ok).To(BeFalse())
			pumpUntilIdle()

			Expect(done).To(BeFalse())
			Expect(m.Value()).To(Equal(value.Float(-1)))
		})

		It("rejects a sequence with an invalid step", func() {
			m := newFloat(0)
			seq := sequence.New[value.Float]().
				Then(1, springTo()).
				Then(2, anim.NewConfig(anim.Tween(0, easing.Linear)))

			Expect(errors.Is(m.AnimateSequence(seq), anim.ErrInvalidConfig)).To(BeTrue())
			Expect(source.Pending()).To(BeZero())
		})
	})

	Describe("Subscribe", func() {
		It("delivers repaint notifications outside the lock", func() {
			m := newFloat(0)
			var seen []value.Float
			unsubscribe := m.Subscribe(func(v value.Float) {
				Expect(m.Value()).To(Equal(v))
				seen = append(seen, v)
			})
			Expect(m.AnimateTo(1, anim.NewConfig(anim.Tween(64*time.Millisecond, easing.Linear)))).To(Succeed())

			pump(2)
			unsubscribe()
			pump(2)

			Expect(seen).To(HaveLen(2))
			Expect(float64(seen[1])).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Describe("teardown", func() {
		It("is idempotent and rejects further animations", func() {
			m := newFloat(0)
			Expect(m.AnimateTo(1, springTo())).To(Succeed())

			Expect(m.Close()).To(Succeed())
			Expect(m.Close()).To(Succeed())

			Expect(source.Pending()).To(BeZero())
			Expect(m.AnimateTo(2, springTo())).To(MatchError(motion.ErrClosed))
		})

		It("deregisters a dropped handle", func() {
			func() {
				m, err := motion.New(value.Float(0), source, motion.WithClock(clock))
				Expect(err).NotTo(HaveOccurred())
				Expect(m.AnimateTo(1, springTo())).To(Succeed())
			}()
			Expect(source.Pending()).To(Equal(1))

			Eventually(func() int {
				runtime.GC()
				return source.Pending()
			}).WithTimeout(5 * time.Second).Should(BeZero())
		})
	})

	It("animates colors within range", func() {
		m, err := motion.New(value.RGBA(255, 255, 255, 255), source,
			motion.WithClock(clock),
			motion.WithSchedulerConfig(scheduler.Config{}),
		)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(m.Close)

		wobbly, _ := spring.Preset("wobbly")
		Expect(m.AnimateTo(value.RGBA(0, 0, 0, 255), anim.NewConfig(anim.Spring(wobbly)))).To(Succeed())
		for source.Pending() > 0 {
			clock.Advance(frame)
			source.Pump()
			c := m.Value()
			Expect(c.R).To(And(BeNumerically(">=", 0), BeNumerically("<=", 255)))
		}
		Expect(m.Value().Hex()).To(Equal("#000000"))
	})
})
