package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/stickshift/internal/automation"
	"github.com/san-kum/stickshift/internal/metrics"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

const (
	ParamRelease = "release"
	ParamGas     = "gas"
)

// Launch scores a standing start by the time it takes to reach TargetKmh.
// Launches that stall or never reach the target score +Inf.
type Launch struct {
	Params    vehicle.Params
	Gear      vehicle.Gear
	TargetKmh float64
	Hold      float64
	Dt        float64
	Seed      int64
}

// Objective reads the release duration and gas from the grid point.
func (l Launch) Objective() Objective {
	params := l.Params
	params.Traffic.Count = 0

	return func(ctx context.Context, point map[string]float64) (float64, error) {
		release, ok := point[ParamRelease]
		if !ok || release <= 0 {
			return 0, fmt.Errorf("launch needs a positive %q", ParamRelease)
		}
		gas, ok := point[ParamGas]
		if !ok {
			return 0, fmt.Errorf("launch needs %q", ParamGas)
		}

		to := metrics.NewTimeToSpeed(l.TargetKmh)
		stalls := metrics.NewStallCount()
		s := automation.LaunchScenario(l.Gear, gas, release, l.Hold, l.Dt, l.Seed)
		if _, err := automation.RunScenario(ctx, s, params, []sim.Metric{to, stalls}, zerolog.Nop()); err != nil {
			return 0, err
		}

		if stalls.Value() > 0 || to.Value() < 0 {
			return math.Inf(1), nil
		}
		return to.Value(), nil
	}
}
