package automation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/metrics"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

// ClutchSweep pulls away from rest once per clutch release duration, evenly
// spaced between ReleaseMin and ReleaseMax.
type ClutchSweep struct {
	Gear       vehicle.Gear
	Gas        float64
	ReleaseMin float64
	ReleaseMax float64
	NumSteps   int
	Hold       float64 // seconds driven after the pedal is fully up
	Dt         float64
	Seed       int64
}

// SweepResult holds results from one release duration
type SweepResult struct {
	Release   float64
	Stalled   bool
	Stalls    int
	SpeedKmh  float64
	TopKmh    float64
	PeakRPM   float64
	TimeTo20  float64
	SlipRatio float64
}

func (sw *ClutchSweep) validate() error {
	if sw.NumSteps < 1 {
		return fmt.Errorf("sweep needs at least one step")
	}
	if sw.ReleaseMin <= 0 || sw.ReleaseMax < sw.ReleaseMin {
		return fmt.Errorf("need 0 < release_min <= release_max")
	}
	if sw.Gear == vehicle.Neutral || !sw.Gear.Valid() {
		return fmt.Errorf("sweep gear must be a drive gear, got %s", sw.Gear)
	}
	if sw.Dt <= 0 || sw.Hold < 0 {
		return fmt.Errorf("need dt > 0 and hold >= 0")
	}
	return nil
}

// LaunchScenario cranks the engine with the clutch down, lets the clutch out
// linearly over release seconds at a fixed gas, then holds that gas.
func LaunchScenario(gear vehicle.Gear, gas, release, hold, dt float64, seed int64) *Scenario {
	phases := []control.Phase{
		{Name: "crank", Duration: 0.5, Gear: gear, Clutch: control.Hold(1), Ignition: "on"},
		{Name: "release", Duration: release, Gear: gear, Clutch: control.Ramp{From: 1, To: 0}, Gas: control.Hold(gas)},
	}
	if hold > 0 {
		phases = append(phases, control.Phase{Name: "hold", Duration: hold, Gear: gear, Gas: control.Hold(gas)})
	}
	return &Scenario{
		Name:   fmt.Sprintf("release-%.2fs", release),
		Dt:     dt,
		Seed:   seed,
		Phases: phases,
	}
}

// RunSweep executes a clutch release sweep
func RunSweep(ctx context.Context, sw *ClutchSweep, params vehicle.Params, log zerolog.Logger) ([]SweepResult, error) {
	if err := sw.validate(); err != nil {
		return nil, err
	}
	params.Traffic.Count = 0

	step := 0.0
	if sw.NumSteps > 1 {
		step = (sw.ReleaseMax - sw.ReleaseMin) / float64(sw.NumSteps-1)
	}

	results := make([]SweepResult, 0, sw.NumSteps)
	for i := 0; i < sw.NumSteps; i++ {
		release := sw.ReleaseMin + float64(i)*step

		stalls := metrics.NewStallCount()
		top := metrics.NewTopSpeed()
		peak := metrics.NewPeakRPM()
		to20 := metrics.NewTimeToSpeed(20)
		slip := metrics.NewSlipRatio(0.2)

		result, err := RunScenario(ctx, LaunchScenario(sw.Gear, sw.Gas, release, sw.Hold, sw.Dt, sw.Seed), params,
			[]sim.Metric{stalls, top, peak, to20, slip}, zerolog.Nop())
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Release:   release,
			Stalled:   result.Final.Stalled,
			Stalls:    int(stalls.Value()),
			SpeedKmh:  result.Final.SpeedKmh,
			TopKmh:    top.Value(),
			PeakRPM:   peak.Value(),
			TimeTo20:  to20.Value(),
			SlipRatio: slip.Value(),
		})

		log.Info().
			Int("step", i+1).
			Int("of", sw.NumSteps).
			Float64("release", release).
			Bool("stalled", result.Final.Stalled).
			Msg("sweep point")
	}

	return results, nil
}
