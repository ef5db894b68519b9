package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/stickshift/internal/automation"
	"github.com/san-kum/stickshift/internal/vehicle"
)

var (
	sweepGear  string
	sweepGas   float64
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepHold  float64
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gear, err := vehicle.ParseGear(sweepGear)
	if err != nil {
		return err
	}

	sw := &automation.ClutchSweep{
		Gear:       gear,
		Gas:        sweepGas,
		ReleaseMin: sweepMin,
		ReleaseMax: sweepMax,
		NumSteps:   sweepSteps,
		Hold:       sweepHold,
		Dt:         dt,
		Seed:       seed,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, sw, cfg.Vehicle, log)
	if err != nil {
		return err
	}

	fmt.Printf("clutch release sweep: gear %s, gas %.2f\n\n", gear, sweepGas)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RELEASE\tSTALLED\tFINAL KM/H\tPEAK RPM\tTO 20 KM/H\tSLIP")
	for _, r := range results {
		to20 := "-"
		if r.TimeTo20 >= 0 {
			to20 = fmt.Sprintf("%.2fs", r.TimeTo20)
		}
		fmt.Fprintf(w, "%.2fs\t%v\t%.1f\t%.0f\t%s\t%.2f\n",
			r.Release, r.Stalled, r.SpeedKmh, r.PeakRPM, to20, r.SlipRatio)
	}
	return w.Flush()
}
