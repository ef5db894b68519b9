package metrics

import (
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// StallCount counts transitions into the stalled state.
type StallCount struct {
	name    string
	count   int
	stalled bool
}

func NewStallCount() *StallCount {
	return &StallCount{
		name: "stalls",
	}
}

func (m *StallCount) Name() string { return m.name }

func (m *StallCount) Observe(st vehicle.State, in vehicle.Input, t float64) {
	if st.Stalled && !m.stalled {
		m.count++
	}
	m.stalled = st.Stalled
}

func (m *StallCount) Value() float64 { return float64(m.count) }

func (m *StallCount) Reset() {
	m.count = 0
	m.stalled = false
}

type PeakRPM struct {
	name string
	peak float64
}

func NewPeakRPM() *PeakRPM {
	return &PeakRPM{
		name: "peak_rpm",
	}
}

func (m *PeakRPM) Name() string { return m.name }

func (m *PeakRPM) Observe(st vehicle.State, in vehicle.Input, t float64) {
	m.peak = math.Max(m.peak, st.RPM)
}

func (m *PeakRPM) Value() float64 { return m.peak }

func (m *PeakRPM) Reset() { m.peak = 0 }
