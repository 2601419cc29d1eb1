package metrics

// SettleTime is the time of the first sample after which the value stays
// within tolerance of its target.
type SettleTime struct {
	name      string
	tolerance float64
	settledAt float64
	inside    bool
	samples   int
}

func NewSettleTime(tolerance float64) *SettleTime {
	return &SettleTime{
		name:      "settle_time",
		tolerance: tolerance,
	}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(sample Sample) {
	s.samples++
	if maxAbs(sample.Offset) > s.tolerance {
		s.inside = false
		return
	}
	if !s.inside {
		s.inside = true
		s.settledAt = sample.Time
	}
}

// Value returns -1 when the final sample is still outside tolerance.
func (s *SettleTime) Value() float64 {
	if !s.inside {
		return -1
	}
	return s.settledAt
}

func (s *SettleTime) Reset() {
	s.settledAt = 0
	s.inside = false
	s.samples = 0
}

// Overshoot is the largest travel past the target as a fraction of the run's
// span: 0.1 means the value went 10% beyond the target.
type Overshoot struct {
	name string
	peak float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(s Sample) {
	if s.Progress-1 > o.peak {
		o.peak = s.Progress - 1
	}
}

func (o *Overshoot) Value() float64 { return o.peak }
func (o *Overshoot) Reset()         { o.peak = 0 }

// TickCount counts observed frames.
type TickCount struct {
	n int
}

func NewTickCount() *TickCount { return &TickCount{} }

func (c *TickCount) Name() string   { return "ticks" }
func (c *TickCount) Observe(Sample) { c.n++ }
func (c *TickCount) Value() float64 { return float64(c.n) }
func (c *TickCount) Reset()         { c.n = 0 }
