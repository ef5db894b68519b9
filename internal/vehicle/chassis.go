package vehicle

import "math"

const (
	restSpeed       = 0.1  // m/s
	creepSnapForce  = 10.0 // N
	crashSpeed      = 10.0 // km/h
	slipSpeedLimit  = 50.0 // km/h
	lateralMinSpeed = 5.0  // m/s
	lateralCoeff    = 0.02
	steerFalloff    = 0.8
)

// chassis integrates velocity, heading and position, then resolves grid
// collisions and recomputes tire slip.
func (p Params) chassis(f *frame) {
	st := &f.st
	c := p.Chassis
	dt := f.dt
	v := f.v

	// Resistance magnitudes come from the velocity entering this stage and act
	// toward zero; they never push the car backwards through rest.
	drag := 0.5 * c.AirDensity * c.FrontalArea * c.DragCoeff * v * v
	var rolling float64
	if math.Abs(v) > restSpeed {
		rolling = c.Mass * c.Gravity * c.RollingCoeff
	}
	brake := st.BrakePedal * c.BrakeForce

	v += f.drive / c.Mass * dt
	if dv := (drag + rolling + brake) / c.Mass * dt; math.Abs(v) <= dv {
		v = 0
	} else {
		v -= signum(v) * dv
	}

	if math.Abs(v) < restSpeed {
		if !f.running || (st.GasPedal == 0 && math.Abs(f.drive) < creepSnapForce) {
			v = 0
		}
	}

	st.TireSlip = p.tireSlip(f.drive, f.v0, v, st.SteeringInput)

	speed := v * 3.6
	if math.Abs(v) > restSpeed {
		sensitivity := 1 - math.Min(1, math.Abs(speed)/p.Steering.CurveSpeed)*steerFalloff
		angle := st.SteeringInput * p.Steering.MaxSteerAngle * sensitivity
		st.Heading += v * math.Sin(angle) / p.Steering.Wheelbase * dt
		st.Heading = math.Remainder(st.Heading, 2*math.Pi)
	}

	nx := f.x0 - math.Sin(st.Heading)*v*dt
	nz := f.z0 - math.Cos(st.Heading)*v*dt

	if !p.OnRoad(nx, nz) {
		nx, nz = f.x0, f.z0
		if math.Abs(speed) > crashSpeed {
			stall(st)
		}
		v, speed = 0, 0
	}

	st.X, st.Z = nx, nz
	st.SpeedKmh = speed
	st.DistanceTraveled += math.Abs(v * dt)
	f.v = v
}

// tireSlip is rebuilt every tick from drive saturation at low speed and
// lateral load at speed.
func (p Params) tireSlip(drive, speed0, v, steering float64) float64 {
	c := p.Chassis
	maxGrip := c.Mass * c.Gravity * c.GripFactor
	var slip float64
	if math.Abs(drive) > maxGrip && math.Abs(speed0) < slipSpeedLimit {
		slip += (math.Abs(drive) - maxGrip) / maxGrip
	}
	if math.Abs(v) > lateralMinSpeed {
		if lf := math.Abs(steering) * v * v * lateralCoeff; lf > 1 {
			slip += lf - 1
		}
	}
	return clamp(slip, 0, 1)
}
