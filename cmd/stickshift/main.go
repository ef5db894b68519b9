package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/stickshift/internal/config"
	"github.com/san-kum/stickshift/internal/logging"
	"github.com/san-kum/stickshift/internal/storage"
)

var (
	dt         float64
	duration   float64
	seed       int64
	configFile string
	preset     string
	logFile    string
	record     bool
	outPath    string

	log     = zerolog.Nop()
	logSink *os.File
)

// main registers the commands and drops into the drive screen when none is given.
func main() {
	rootCmd := &cobra.Command{
		Use:                "stickshift",
		Short:              "manual transmission driving simulator",
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		SilenceUsage:       true,
		RunE:               runDrive,
	}

	rootCmd.PersistentFlags().String("data", ".stickshift", "data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append logs to this file")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	vehicleFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		c.Flags().StringVar(&preset, "preset", "", "vehicle preset")
		c.Flags().Int64Var(&seed, "seed", 1, "random seed")
	}
	vehicleFlags(rootCmd)
	rootCmd.Flags().BoolVar(&record, "record", false, "save telemetry on quit")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive interactively",
		Args:  cobra.NoArgs,
		RunE:  runDrive,
	}
	vehicleFlags(driveCmd)
	driveCmd.Flags().BoolVar(&record, "record", false, "save telemetry on quit")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scripted scenario headless (builtin name or yaml file)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	vehicleFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from scenario)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (default script length)")

	cruiseCmd := &cobra.Command{
		Use:   "cruise",
		Short: "hold a speed with the cruise controller from a rolling start",
		Args:  cobra.NoArgs,
		RunE:  runCruise,
	}
	vehicleFlags(cruiseCmd)
	cruiseCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cruiseCmd.Flags().Float64Var(&duration, "time", 30, "duration")
	cruiseCmd.Flags().Float64Var(&cruiseTarget, "target", 60, "target speed km/h")
	cruiseCmd.Flags().Float64Var(&cruiseFrom, "from", 40, "start speed km/h")
	cruiseCmd.Flags().StringVar(&cruiseGear, "gear", "3", "gear to hold")
	cruiseCmd.Flags().Float64Var(cruiseGains["kp"], "kp", 0.05, "proportional gain")
	cruiseCmd.Flags().Float64Var(cruiseGains["ki"], "ki", 0.01, "integral gain")
	cruiseCmd.Flags().Float64Var(cruiseGains["kd"], "kd", 0, "derivative gain")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot rpm and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and telemetry as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the driven route over the road grid",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	for _, c := range []*cobra.Command{exportCSVCmd, exportJSONCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list vehicle presets and builtin scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "pull away once per clutch release time and report stalls",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	vehicleFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().StringVar(&sweepGear, "gear", "1", "gear to pull away in")
	sweepCmd.Flags().Float64Var(&sweepGas, "gas", 0.4, "gas held during release")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "shortest release, seconds")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3, "longest release, seconds")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of release times")
	sweepCmd.Flags().Float64Var(&sweepHold, "hold", 2, "seconds driven after release")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search clutch release and gas for the quickest clean launch",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	vehicleFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	tuneCmd.Flags().StringVar(&tuneGear, "gear", "1", "gear to pull away in")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 50, "target speed, km/h")
	tuneCmd.Flags().Float64Var(&tuneReleaseMin, "release-min", 0.5, "shortest release, seconds")
	tuneCmd.Flags().Float64Var(&tuneReleaseMax, "release-max", 3, "longest release, seconds")
	tuneCmd.Flags().Float64Var(&tuneGasMin, "gas-min", 0.2, "lightest gas")
	tuneCmd.Flags().Float64Var(&tuneGasMax, "gas-max", 1, "heaviest gas")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 6, "grid points per axis")
	tuneCmd.Flags().Float64Var(&tuneHold, "hold", 8, "seconds driven after release")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the simulation step",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	vehicleFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 8, "parallel seeds for the ensemble pass")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "ensemble workers (0 = GOMAXPROCS)")

	rootCmd.AddCommand(driveCmd, runCmd, cruiseCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, tuneCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup layers STICKSHIFT_* environment variables and an optional
// stickshift.yaml over the flags, then builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	viper.SetDefault("data", ".stickshift")
	viper.SetDefault("log-level", "info")
	viper.SetEnvPrefix("STICKSHIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("stickshift")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	level := viper.GetString("log-level")
	if logFile == "" {
		log = logging.Setup(level, os.Stderr)
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logSink = f
	log = logging.SetupMulti(level, os.Stderr, f)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logSink == nil {
		return nil
	}
	return logSink.Close()
}

func store() *storage.Store {
	return storage.New(viper.GetString("data"))
}

// loadConfig resolves --config and --preset. A config file may name its own
// preset; --preset only applies without a file.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'stickshift presets')", preset)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func output() (*os.File, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
