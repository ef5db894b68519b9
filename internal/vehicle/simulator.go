package vehicle

import (
	"fmt"
	"math"
	"math/rand"
)

// Simulator advances vehicle states under a fixed, validated Params table.
type Simulator struct {
	params Params
	rng    *rand.Rand
}

// New validates p and returns a simulator whose traffic is driven by seed.
func New(p Params, seed int64) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		params: p.Clone(),
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// MustNew is New for startup code: invalid params are a programming error.
func MustNew(p Params, seed int64) *Simulator {
	s, err := New(p, seed)
	if err != nil {
		panic(fmt.Sprintf("vehicle: %v", err))
	}
	return s
}

func (s *Simulator) Params() Params { return s.params.Clone() }

// Advance returns the state one frame of dt seconds later under input in.
// dt above Params.MaxDt is clamped; dt <= 0 only applies the input.
func (s *Simulator) Advance(st State, in Input, dt float64) State {
	in = in.Clamped()
	st = st.Clone()
	st.GasPedal = in.Gas
	st.BrakePedal = in.Brake
	st.ClutchPedal = in.Clutch
	st.SteeringInput = in.Steering
	st.Gear = in.Gear

	if !(dt > 0) {
		return st
	}
	dt = math.Min(dt, s.params.MaxDt)

	f := frame{
		st:      st,
		dt:      dt,
		v0:      st.SpeedKmh,
		x0:      st.X,
		z0:      st.Z,
		v:       st.Velocity(),
		running: st.EngineOn && !st.Stalled,
	}

	s.params.traffic(&f.st, s.rng, dt)
	s.params.drivetrain(&f)
	s.params.chassis(&f)

	f.st.RPM = clamp(f.st.RPM, 0, s.params.Engine.MaxRPM)
	return f.st
}

// Ignite starts the engine at idle and clears a stall.
func (s *Simulator) Ignite(st State) State {
	st = st.Clone()
	st.EngineOn = true
	st.Stalled = false
	st.RPM = s.params.Engine.IdleRPM
	return st
}

// KillEngine switches the engine off; RPM then spins down in Advance.
func (s *Simulator) KillEngine(st State) State {
	st = st.Clone()
	st.EngineOn = false
	st.Stalled = false
	return st
}

// ToggleIgnition is the ignition key: it kills a running engine and starts a
// stopped or stalled one.
func (s *Simulator) ToggleIgnition(st State) State {
	if st.EngineOn {
		return s.KillEngine(st)
	}
	return s.Ignite(st)
}
