package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/stickshift/internal/optim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

var (
	tuneGear       string
	tuneTarget     float64
	tuneReleaseMin float64
	tuneReleaseMax float64
	tuneGasMin     float64
	tuneGasMax     float64
	tuneSteps      int
	tuneHold       float64
)

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gear, err := vehicle.ParseGear(tuneGear)
	if err != nil {
		return err
	}
	if tuneSteps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	launch := optim.Launch{
		Params:    cfg.Vehicle,
		Gear:      gear,
		TargetKmh: tuneTarget,
		Hold:      tuneHold,
		Dt:        dt,
		Seed:      seed,
	}
	grid := optim.NewGridSearch(
		[]string{optim.ParamRelease, optim.ParamGas},
		[][]float64{
			optim.Linspace(tuneReleaseMin, tuneReleaseMax, tuneSteps),
			optim.Linspace(tuneGasMin, tuneGasMax, tuneSteps),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Int("points", grid.Points()).Str("gear", gear.String()).Msg("tuning launch")
	best, score, err := grid.Search(ctx, launch.Objective())
	if err != nil {
		return err
	}
	if math.IsInf(score, 1) {
		fmt.Printf("no launch in the grid reached %.0f km/h without stalling\n", tuneTarget)
		return nil
	}

	fmt.Printf("best launch in gear %s to %.0f km/h:\n", gear, tuneTarget)
	fmt.Printf("  release %.2fs  gas %.2f  time %.2fs\n",
		best[optim.ParamRelease], best[optim.ParamGas], score)
	return nil
}
