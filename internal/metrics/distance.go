package metrics

import "github.com/san-kum/stickshift/internal/vehicle"

// Distance is the odometer delta over the observed window, in meters.
type Distance struct {
	name        string
	first, last float64
	samples     int
}

func NewDistance() *Distance {
	return &Distance{
		name: "distance_m",
	}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(st vehicle.State, in vehicle.Input, t float64) {
	if d.samples == 0 {
		d.first = st.DistanceTraveled
	}
	d.last = st.DistanceTraveled
	d.samples++
}

func (d *Distance) Value() float64 { return d.last - d.first }

func (d *Distance) Reset() {
	d.first, d.last = 0, 0
	d.samples = 0
}
