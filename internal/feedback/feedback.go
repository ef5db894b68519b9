// Package feedback derives what a driver hears and sees from a vehicle state.
// Nothing here feeds back into the simulation.
package feedback

import (
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

const (
	slipThreshold = 0.2

	gaugeStart     = 135.0
	gaugeSweep     = 270.0
	gaugeOvershoot = 1.08
)

// Tone is the engine drone. Harmonic is played at 1.5x Freq.
type Tone struct {
	Freq     float64
	Harmonic float64
	Volume   float64
}

type Squeal struct {
	Active bool
	Pitch  float64
	Volume float64
}

type Cues struct {
	Engine     Tone
	Squeal     Squeal
	BrakeLight bool
	Pitch      float64 // body pitch, radians, nose up positive
	Roll       float64
	Smoke      bool
	Shake      bool
}

// EngineTone is silent below 50 rpm.
func EngineTone(rpm, gas float64) Tone {
	if rpm < 50 {
		return Tone{}
	}
	f := 40 + rpm/20
	return Tone{
		Freq:     f,
		Harmonic: f * 1.5,
		Volume:   0.05 + rpm/7000*0.1 + gas*0.1,
	}
}

func TireSqueal(slip, speedKmh float64) Squeal {
	speed := math.Abs(speedKmh)
	if slip <= slipThreshold || speed <= 5 {
		return Squeal{}
	}
	return Squeal{
		Active: true,
		Pitch:  800 + speed*2,
		Volume: math.Min(0.3, (slip-slipThreshold)*0.5),
	}
}

func For(st vehicle.State) Cues {
	speed := math.Abs(st.SpeedKmh)
	return Cues{
		Engine:     EngineTone(st.RPM, st.GasPedal),
		Squeal:     TireSqueal(st.TireSlip, st.SpeedKmh),
		BrakeLight: st.BrakePedal > 0.1,
		Pitch:      st.GasPedal*0.02 - st.BrakePedal*0.03,
		Roll:       st.SteeringInput * speed / 250,
		Smoke:      st.TireSlip > slipThreshold && speed > 1,
		Shake:      st.Stalled,
	}
}

// GaugeAngle maps a reading onto a 270 degree dial starting at 135 degrees.
// The needle may pass the top of the scale by 8%.
func GaugeAngle(value, max float64) float64 {
	if !(max > 0) {
		return gaugeStart
	}
	frac := math.Min(math.Max(value/max, 0), gaugeOvershoot)
	return gaugeStart + frac*gaugeSweep
}
