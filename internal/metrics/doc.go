// Package metrics summarizes a drive. Each metric observes every sampled
// state and reports a single number when the run ends.
package metrics

import "github.com/san-kum/stickshift/internal/sim"

// Standard is the metric set attached to headless runs.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewTopSpeed(),
		NewTimeToSpeed(50),
		NewPeakRPM(),
		NewStallCount(),
		NewSlipRatio(0.2),
		NewDistance(),
	}
}
