package cockpit

import (
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// Pedal and steering slew rates, in travel per second.
const (
	gasRate         = 2.0
	brakeRate       = 3.0
	clutchPressRate = 5.0
	clutchRelease   = 5.0
	clutchBiteRate  = 0.5
	steerRate       = 2.0
	steerReturnKmh  = 20.0
)

// Held is the set of digital controls down this frame.
type Held struct {
	Gas, Brake, Clutch bool
	Left, Right        bool
}

// Analog carries positions from an analog device. Zero means no analog input.
type Analog struct {
	Gas, Brake, Clutch float64
	Steering           float64
}

// Shaper turns digital controls into pedal travel. Releasing the clutch slows
// down inside the bite zone so a keyboard can find the bite point.
type Shaper struct {
	BiteStart, BiteEnd float64
}

func NewShaper(p vehicle.Params) Shaper {
	return Shaper{BiteStart: p.Drivetrain.BiteStart, BiteEnd: p.Drivetrain.BiteEnd}
}

// Shape advances cur by one frame. Gear passes through unchanged.
func (s Shaper) Shape(cur vehicle.Input, held Held, analog Analog, speedKmh, dt float64) vehicle.Input {
	next := cur

	switch {
	case analog.Gas > 0:
		next.Gas = analog.Gas
	case held.Gas:
		next.Gas += gasRate * dt
	default:
		next.Gas -= gasRate * dt
	}

	switch {
	case analog.Brake > 0:
		next.Brake = analog.Brake
	case held.Brake:
		next.Brake += brakeRate * dt
	default:
		next.Brake -= brakeRate * dt
	}

	switch {
	case analog.Clutch > 0:
		next.Clutch = analog.Clutch
	case held.Clutch:
		next.Clutch += clutchPressRate * dt
	default:
		rate := clutchRelease
		if next.Clutch > s.BiteStart && next.Clutch < s.BiteEnd {
			rate = clutchBiteRate
		}
		next.Clutch -= rate * dt
	}

	switch {
	case analog.Steering != 0:
		next.Steering = analog.Steering
	case held.Left:
		next.Steering += steerRate * dt
	case held.Right:
		next.Steering -= steerRate * dt
	default:
		ret := steerRate * dt * math.Max(1, math.Abs(speedKmh)/steerReturnKmh)
		if next.Steering > 0 {
			next.Steering = math.Max(0, next.Steering-ret)
		} else if next.Steering < 0 {
			next.Steering = math.Min(0, next.Steering+ret)
		}
	}

	return next.Clamped()
}

// ShiftUp moves one step along R, N, 1..5 and stops at fifth.
func ShiftUp(g vehicle.Gear) vehicle.Gear {
	if g >= vehicle.Fifth {
		return vehicle.Fifth
	}
	return g + 1
}

// ShiftDown stops at reverse.
func ShiftDown(g vehicle.Gear) vehicle.Gear {
	if g <= vehicle.Reverse {
		return vehicle.Reverse
	}
	return g - 1
}
