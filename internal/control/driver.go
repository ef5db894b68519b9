package control

import "github.com/san-kum/stickshift/internal/vehicle"

// Command is one frame of driver intent. Ignition is applied before the
// input is advanced.
type Command struct {
	Input    vehicle.Input
	Ignition Ignition
}

type Ignition int

const (
	KeyNone Ignition = iota
	KeyOn
	KeyOff
	KeyToggle
)

type Driver interface {
	Compute(st vehicle.State, t float64) Command
}

// Apply turns the ignition key described by cmd.
func Apply(sim *vehicle.Simulator, st vehicle.State, k Ignition) vehicle.State {
	switch k {
	case KeyOn:
		return sim.Ignite(st)
	case KeyOff:
		return sim.KillEngine(st)
	case KeyToggle:
		return sim.ToggleIgnition(st)
	}
	return st
}
