// Package vehicle implements the car: a manual-transmission drivetrain and a
// kinematic chassis driving on a Manhattan street grid among scripted traffic.
//
// A [Simulator] advances a [State] by one frame:
//
//   - traffic: scripted cars move, far cars respawn, the count is topped up
//   - drivetrain: clutch load factor, engine RPM, rev limiter, stalls, drive force
//   - chassis: resistance, velocity, steering, position, grid collision, tire slip
//
// # Example
//
//	sim := vehicle.MustNew(vehicle.DefaultParams(), 42)
//	st := sim.Ignite(vehicle.NewState())
//	st = sim.Advance(st, vehicle.Input{Clutch: 1, Gear: vehicle.First}, 1.0/60)
//
// All rates are per second and scaled by dt, which is clamped to [Params.MaxDt].
// Advance never fails: bad inputs are clamped and stalls or crashes are ordinary
// states. Invalid [Params] are rejected once by [New] (or panic in [MustNew]).
//
// # Thread Safety
//
// A Simulator owns a random source and is NOT safe for concurrent use. States
// are values; Advance copies the traffic slice so the caller's State is never
// mutated.
package vehicle
