package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/stickshift/internal/automation"
	"github.com/san-kum/stickshift/internal/config"
	"github.com/san-kum/stickshift/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tPRESET\tTIME\tDURATION\tDT\tSTALLS\tTOP KM/H")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%.0f\t%.1f\n",
			run.ID,
			run.Source,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Metrics["stalls"],
			run.Metrics["top_speed_kmh"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("samples: %d\n\n", len(samples))

	rpm := make([]float64, len(samples))
	speed := make([]float64, len(samples))
	for i, s := range samples {
		rpm[i] = s.State.RPM
		speed[i] = s.State.SpeedKmh
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{rpm, "engine rpm"},
		{speed, "speed km/h"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	samples, err := store().LoadSamples(args[0])
	if err != nil {
		return err
	}
	out, done, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(out, samples); err != nil {
		return err
	}
	return done()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	out, done, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, *meta, samples); err != nil {
		return err
	}
	return done()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	// the grid the run was driven on
	cfg := config.GetPreset(meta.Preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	svg := storage.RouteSVG(samples, cfg.Vehicle.Grid, 800, 800)
	if svg == "" {
		return fmt.Errorf("run %s has too few samples for a route", meta.ID)
	}

	out, done, err := output()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, svg); err != nil {
		return err
	}
	return done()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.Describe(name))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SCENARIO\tDESCRIPTION")
	for _, name := range automation.ListBuiltins() {
		s, _ := automation.Builtin(name)
		fmt.Fprintf(w, "%s\t%s\n", name, s.Description)
	}
	return w.Flush()
}
