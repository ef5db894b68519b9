package control

import (
	"fmt"
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Min, Max float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

// NewPID returns a controller whose output saturates at [min, max]. The
// integral stops accumulating while the output is pinned.
func NewPID(kp, ki, kd, target, min, max float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Min:    min,
		Max:    max,
		first:  true,
	}
}

// Update returns the control output for measurement y at time t.
func (p *PID) Update(y, t float64) float64 {
	err := p.Target - y

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.saturate(p.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.saturate(p.Kp*err + p.Ki*p.integral)
	}

	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative
	if (u < p.Max || err < 0) && (u > p.Min || err > 0) {
		p.integral += err * dt
	}
	return p.saturate(p.Kp*err + p.Ki*p.integral + p.Kd*derivative)
}

func (p *PID) saturate(u float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, u))
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns the tunable parameters by name.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter by the names GetParams reports.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	default:
		return fmt.Errorf("unknown pid parameter %q", name)
	}
	return nil
}

// Cruise holds a target speed in km/h in a fixed gear with the clutch up.
// Positive PID output is throttle, negative is brake.
type Cruise struct {
	PID  *PID
	Gear vehicle.Gear
}

func NewCruise(gear vehicle.Gear, targetKmh float64) *Cruise {
	return &Cruise{
		PID:  NewPID(0.05, 0.01, 0, targetKmh, -1, 1),
		Gear: gear,
	}
}

func (c *Cruise) Compute(st vehicle.State, t float64) Command {
	u := c.PID.Update(st.SpeedKmh, t)
	in := vehicle.Input{Gear: c.Gear}
	if u > 0 {
		in.Gas = u
	} else {
		in.Brake = -u
	}
	return Command{Input: in}
}
