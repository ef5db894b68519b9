package metrics

import "github.com/san-kum/stickshift/internal/vehicle"

// SlipRatio is the fraction of samples where tire slip exceeded a threshold.
type SlipRatio struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSlipRatio(threshold float64) *SlipRatio {
	return &SlipRatio{
		name:      "slip_ratio",
		threshold: threshold,
	}
}

func (s *SlipRatio) Name() string {
	return s.name
}

func (s *SlipRatio) Observe(st vehicle.State, in vehicle.Input, t float64) {
	s.samples++
	if st.TireSlip > s.threshold {
		s.violations++
	}
}

func (s *SlipRatio) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *SlipRatio) Reset() {
	s.violations = 0
	s.samples = 0
}
