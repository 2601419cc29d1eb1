package metrics

// PeakVelocity is the largest velocity component seen.
type PeakVelocity struct {
	name string
	peak float64
}

func NewPeakVelocity() *PeakVelocity {
	return &PeakVelocity{
		name: "peak_velocity",
	}
}

func (p *PeakVelocity) Name() string {
	return p.name
}

func (p *PeakVelocity) Observe(s Sample) {
	if v := maxAbs(s.Velocity); v > p.peak {
		p.peak = v
	}
}

func (p *PeakVelocity) Value() float64 {
	return p.peak
}

func (p *PeakVelocity) Reset() {
	p.peak = 0
}
