package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/stickshift/internal/automation"
	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/metrics"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/storage"
	"github.com/san-kum/stickshift/internal/vehicle"
)

var (
	cruiseTarget float64
	cruiseFrom   float64
	cruiseGear   string
	cruiseGains  = map[string]*float64{"kp": new(float64), "ki": new(float64), "kd": new(float64)}
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := automation.Resolve(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		s.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		s.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		s.Seed = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := automation.RunScenario(ctx, s, cfg.Vehicle, metrics.Standard(), log)
	if err != nil {
		return err
	}
	log.Info().Str("scenario", s.Name).Dur("wall", time.Since(start)).Int("steps", result.StepsTaken).Msg("scenario finished")

	runCfg := s.Config()
	return saveResult(storage.RunMetadata{
		Source:   s.Name,
		Preset:   cfg.Preset,
		Seed:     s.Seed,
		Dt:       runCfg.Dt,
		Duration: runCfg.Duration,
		Metrics:  result.Metrics,
	}, result)
}

func runCruise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gear, err := vehicle.ParseGear(cruiseGear)
	if err != nil {
		return err
	}
	if gear == vehicle.Neutral || gear == vehicle.Reverse {
		return fmt.Errorf("cruise needs a forward gear, got %s", gear)
	}

	v, err := vehicle.New(cfg.Vehicle, seed)
	if err != nil {
		return err
	}
	st := v.Ignite(vehicle.NewState())
	st.Gear = gear
	st.SpeedKmh = cruiseFrom
	p := v.Params()
	st.RPM = min(p.Engine.MaxRPM, max(p.Engine.IdleRPM, p.TargetEngineRPM(gear, st.Velocity())))

	cruise := control.NewCruise(gear, cruiseTarget)
	for flag, name := range map[string]string{"kp": "Kp", "ki": "Ki", "kd": "Kd"} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if err := cruise.PID.SetParam(name, *cruiseGains[flag]); err != nil {
			return err
		}
	}
	gains := cruise.PID.GetParams()
	log.Info().
		Float64("kp", gains["Kp"]).
		Float64("ki", gains["Ki"]).
		Float64("kd", gains["Kd"]).
		Float64("target", gains["Target"]).
		Msg("cruise gains")

	r := sim.New(v, cruise)
	r.SetLogger(log)
	for _, m := range metrics.Standard() {
		r.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCfg := sim.Config{Dt: dt, Duration: duration, Seed: seed}
	result, err := r.Run(ctx, st, runCfg)
	if err != nil {
		return err
	}
	fmt.Printf("target %.1f km/h, final %.1f km/h\n", cruiseTarget, result.Final.SpeedKmh)

	return saveResult(storage.RunMetadata{
		Source:   "cruise",
		Preset:   cfg.Preset,
		Seed:     seed,
		Dt:       dt,
		Duration: duration,
		Metrics:  result.Metrics,
	}, result)
}

func saveResult(meta storage.RunMetadata, result *sim.Result) error {
	runID, err := store().Save(meta, result.Samples)
	if err != nil {
		return err
	}
	log.Info().Str("run", runID).Int("samples", len(result.Samples)).Msg("run saved")

	fmt.Printf("run: %s\n\n", runID)
	return printMetrics(result.Metrics)
}

func printMetrics(m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\n", name, m[name])
	}
	return w.Flush()
}
