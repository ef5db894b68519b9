package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

type TopSpeed struct {
	name string
	max  float64
}

func NewTopSpeed() *TopSpeed {
	return &TopSpeed{
		name: "top_speed_kmh",
	}
}

func (m *TopSpeed) Name() string { return m.name }

func (m *TopSpeed) Observe(st vehicle.State, in vehicle.Input, t float64) {
	m.max = math.Max(m.max, math.Abs(st.SpeedKmh))
}

func (m *TopSpeed) Value() float64 { return m.max }

func (m *TopSpeed) Reset() { m.max = 0 }

// TimeToSpeed records the first time the car reaches a target speed.
// Value is -1 until then.
type TimeToSpeed struct {
	name   string
	target float64
	at     float64
	hit    bool
}

func NewTimeToSpeed(targetKmh float64) *TimeToSpeed {
	return &TimeToSpeed{
		name:   fmt.Sprintf("time_to_%.0f_kmh", targetKmh),
		target: targetKmh,
	}
}

func (m *TimeToSpeed) Name() string { return m.name }

func (m *TimeToSpeed) Observe(st vehicle.State, in vehicle.Input, t float64) {
	if !m.hit && math.Abs(st.SpeedKmh) >= m.target {
		m.hit = true
		m.at = t
	}
}

func (m *TimeToSpeed) Value() float64 {
	if !m.hit {
		return -1
	}
	return m.at
}

func (m *TimeToSpeed) Reset() {
	m.hit = false
	m.at = 0
}
