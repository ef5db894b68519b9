package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/logging"
	"github.com/san-kum/stickshift/internal/metrics"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/storage"
	"github.com/san-kum/stickshift/internal/vehicle"
	"github.com/san-kum/stickshift/internal/viz"
)

// runDrive opens the drive screen. The terminal belongs to the UI, so logs go
// to --log-file or nowhere.
func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dlog := zerolog.Nop()
	if logSink != nil {
		dlog = logging.Setup(viper.GetString("log-level"), logSink)
	}

	v, err := vehicle.New(cfg.Vehicle, seed)
	if err != nil {
		return err
	}
	manual := control.NewManual()
	live := sim.NewLive(v, manual, vehicle.NewState(), cfg.Live.Hz)
	live.SetLogger(dlog)

	var rec *sim.Recorder
	if record {
		// keep ~10 frames per second
		rec = sim.NewRecorder(max(1, cfg.Live.Hz/10))
		live.AddObserver(rec)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return live.Run(ctx) })

	_, uiErr := tea.NewProgram(viz.NewModel(live, manual, cfg.Vehicle), tea.WithAltScreen()).Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if uiErr != nil {
		return uiErr
	}

	if rec == nil || rec.Len() == 0 {
		return nil
	}
	samples := rec.Samples()
	ms := metrics.Standard()
	for _, s := range samples {
		for _, m := range ms {
			m.Observe(s.State, s.Input, s.Time)
		}
	}
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}

	runID, err := store().Save(storage.RunMetadata{
		Source:   "drive",
		Preset:   cfg.Preset,
		Seed:     seed,
		Dt:       1 / float64(cfg.Live.Hz),
		Duration: live.Elapsed().Seconds(),
		Metrics:  values,
	}, samples)
	if err != nil {
		return err
	}
	dlog.Info().Str("run", runID).Msg("drive recorded")
	fmt.Printf("recorded run: %s\n", runID)
	return nil
}
