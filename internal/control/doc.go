// Package control provides drivers: things that decide the pedals, wheel and
// gear for the next frame.
//
// Drivers implement [Driver] and return a [Command] each frame:
//
//   - [None]: hands off, zero input in neutral
//   - [Manual]: input set from another goroutine (the TUI)
//   - [Script]: timed phases with linear pedal ramps
//   - [Cruise]: PID speed hold in a fixed gear
//
// # Usage
//
//	cruise := control.NewCruise(vehicle.Third, 60)
//	cmd := cruise.Compute(st, t)
//	st = sim.Advance(st, cmd.Input, dt)
//
// [PID] gains can be read and changed by name with GetParams/SetParam; the
// cruise command uses this for its --kp/--ki/--kd flags.
package control
