package vehicle

import "math"

const (
	revLimitMargin   = 200.0
	engineBrakeCoeff = 0.05
	engineOffDecay   = 2000.0

	freeRevRate    = 6000.0
	freeRevDecay   = 3000.0
	clutchPull     = 20.0
	loadPushRate   = 3000.0
	biteDragRate   = 300.0
	idleGovGain    = 50.0
	idleGovMaxLoad = 0.7

	hardStallSpeed  = 5.0 // km/h
	hardStallClutch = 0.1
	hardStallLurch  = 0.8 // m/s
	softStallJerk   = 0.2 // m/s

	creepRPMLow  = 400.0
	creepRPMHigh = 1200.0
)

// Torque interpolates the torque curve. RPM outside the table yields 0.
func (p Params) Torque(rpm float64) float64 {
	curve := p.Engine.Torque
	if len(curve) == 0 || rpm < curve[0].RPM || rpm > curve[len(curve)-1].RPM {
		return 0
	}
	for i := 0; i < len(curve)-1; i++ {
		a, b := curve[i], curve[i+1]
		if rpm > b.RPM {
			continue
		}
		t := (rpm - a.RPM) / (b.RPM - a.RPM)
		return a.Torque + t*(b.Torque-a.Torque)
	}
	return curve[len(curve)-1].Torque
}

// LoadFactor maps the clutch pedal to engine/wheel coupling in [0,1].
// Pedal 1 is fully pressed (disengaged). Inside the bite zone the load ramps
// from 0 to BiteMaxLoad; fully released jumps to 1.
func (p Params) LoadFactor(g Gear, clutch float64) float64 {
	if g == Neutral || !g.Valid() {
		return 0
	}
	d := p.Drivetrain
	clutch = clamp(clutch, 0, 1)
	switch {
	case clutch > d.BiteEnd:
		return 0
	case clutch >= d.BiteStart:
		return (d.BiteEnd - clutch) / (d.BiteEnd - d.BiteStart) * d.BiteMaxLoad
	default:
		return 1
	}
}

// WheelRPM converts a signed velocity in m/s to wheel revolutions per minute.
func (p Params) WheelRPM(v float64) float64 {
	return v * 60 / (2 * math.Pi * p.Drivetrain.WheelRadius)
}

// TargetEngineRPM is the engine speed implied by the wheels through the gearbox.
func (p Params) TargetEngineRPM(g Gear, v float64) float64 {
	return math.Abs(p.WheelRPM(v) * p.GearRatio(g) * p.Drivetrain.FinalDrive)
}

// frame carries the intermediate values of one Advance call between stages.
type frame struct {
	st State
	dt float64

	v0     float64 // speed in km/h at tick start
	x0, z0 float64
	v      float64 // m/s, updated by both stages

	running bool
	load    float64
	drive   float64
}

// drivetrain runs the engine state machine and sets f.drive.
func (p Params) drivetrain(f *frame) {
	st := &f.st
	dt := f.dt

	if !f.running {
		st.RPM = math.Max(0, st.RPM-engineOffDecay*dt)
		return
	}

	e := p.Engine
	neutral := st.Gear == Neutral
	gas := st.GasPedal
	target := p.TargetEngineRPM(st.Gear, f.v)
	limited := target > e.MaxRPM+revLimitMargin

	var torque float64
	switch {
	case limited && !neutral && st.ClutchPedal < 0.5:
		torque = p.Drivetrain.FuelCutTorque
	case gas < 0.01:
		torque = -st.RPM * engineBrakeCoeff
	default:
		torque = p.Torque(st.RPM) * gas
	}

	if !neutral && math.Abs(f.v0) < hardStallSpeed && st.ClutchPedal < hardStallClutch {
		stall(st)
		f.v += hardStallLurch
		return
	}

	load := p.LoadFactor(st.Gear, st.ClutchPedal)
	f.load = load

	if load < 0.1 {
		if gas > 0.1 && !limited {
			goal := e.IdleRPM + gas*(e.MaxRPM-e.IdleRPM)
			if st.RPM < goal {
				st.RPM = math.Min(goal, st.RPM+freeRevRate*gas*dt)
			} else {
				st.RPM = math.Max(goal, st.RPM-freeRevDecay*dt)
			}
		} else if floor := e.IdleRPM + 100; st.RPM > floor {
			st.RPM = math.Max(floor, st.RPM-freeRevDecay*dt)
		}
	} else {
		st.RPM += (target - st.RPM) * gain(clutchPull*load, dt)
		if gas > 0 && !limited {
			st.RPM += loadPushRate * gas * dt * (1 - load*0.5)
		}
		if gas < 0.1 && math.Abs(f.v0) < 10 {
			st.RPM -= biteDragRate * load * dt
		}
	}

	if st.RPM < e.IdleRPM && load < idleGovMaxLoad {
		st.RPM += (e.IdleRPM - st.RPM) * gain(idleGovGain, dt)
	}
	st.RPM = clamp(st.RPM, 0, e.MaxRPM)

	if st.RPM < e.StallRPM && !neutral {
		stall(st)
		if load > 0.5 {
			f.v += softStallJerk
		}
		return
	}

	if neutral {
		return
	}
	d := p.Drivetrain
	ratio := p.GearRatio(st.Gear)
	wheelTorque := torque * ratio * d.FinalDrive * d.Efficiency
	var creep float64
	if gas < 0.1 && st.RPM > creepRPMLow && st.RPM < creepRPMHigh && load > 0.1 {
		creep = d.CreepTorque * ratio * load
	}
	f.drive = (wheelTorque + creep) / d.WheelRadius * load
	if st.Gear == Reverse {
		f.drive = -f.drive
	}
}

// gain steps a proportional controller; capped at 1 so a long frame lands
// on the setpoint instead of overshooting it.
func gain(k, dt float64) float64 {
	return math.Min(1, k*dt)
}

func stall(st *State) {
	st.Stalled = true
	st.EngineOn = false
	st.RPM = 0
}
