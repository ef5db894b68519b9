// Package viz is the terminal drive screen built on Bubble Tea.
//
//   - [Model]: dashboard, minimap and rpm trace over a running sim.Live
//   - [Minimap]: north-up braille map of the road grid and traffic
//   - [Canvas]: braille dot canvas with per-cell layers
//
// # Key Bindings
//
//	W/S       - Gas/Brake (held)
//	Space/C   - Clutch (held)
//	A/D       - Steer
//	Up/Down   - Sequential shift
//	1-5 R N   - Select gear
//	I         - Ignition
//	+/-       - Zoom map
//	T         - Cycle themes
//	Q         - Quit
//
// Terminals only report presses, so held controls go through cockpit.Latch.
package viz
