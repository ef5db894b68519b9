package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/metrics"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

var (
	benchRuns    int
	benchWorkers int
)

func cruising(p vehicle.Params, v *vehicle.Simulator) vehicle.State {
	st := v.Ignite(vehicle.NewState())
	st.Gear = vehicle.Third
	st.SpeedKmh = 40
	st.RPM = max(p.Engine.IdleRPM, p.TargetEngineRPM(st.Gear, st.Velocity()))
	return st
}

// runBench times the step loop over a grid of timesteps, then runs an
// ensemble of seeds in parallel.
func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := cfg.Vehicle
	ctx := context.Background()

	durations := []float64{10, 60}
	dts := []float64{0.001, 0.01, 1.0 / 60, 0.05}

	fmt.Printf("benchmarking %d traffic cars\n\n", p.Traffic.Count)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range dts {
			v, err := vehicle.New(p, seed)
			if err != nil {
				return err
			}
			r := sim.New(v, control.NewCruise(vehicle.Third, 60))

			start := time.Now()
			result, err := r.Run(ctx, cruising(p, v), sim.Config{Dt: dt, Duration: dur, Seed: seed, SampleEvery: 1000})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.0fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, dt, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	factory := func(s int64) (*sim.Runner, error) {
		v, err := vehicle.New(p, s)
		if err != nil {
			return nil, err
		}
		r := sim.New(v, control.NewCruise(vehicle.Third, 60))
		for _, m := range metrics.Standard() {
			r.AddMetric(m)
		}
		return r, nil
	}
	ens := sim.NewEnsemble(factory, benchRuns, seed)
	if benchWorkers > 0 {
		ens.SetWorkers(benchWorkers)
	}

	v, err := vehicle.New(p, seed)
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := ens.Run(ctx, cruising(p, v), sim.Config{Dt: 1.0 / 60, Duration: 60, SampleEvery: 1000})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps, stalls := 0, 0.0
	for _, r := range results {
		steps += r.StepsTaken
		stalls += r.Metrics["stalls"]
	}
	fmt.Printf("\nensemble: %d seeds, %d steps in %v (%.0f steps/sec), %.0f stalls\n",
		len(results), steps, elapsed, float64(steps)/elapsed.Seconds(), stalls)
	log.Debug().Int("runs", len(results)).Dur("elapsed", elapsed).Msg("ensemble finished")
	return nil
}
