package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/vehicle"
)

// Runner drives a vehicle simulator headless with a fixed timestep.
type Runner struct {
	vehicle   *vehicle.Simulator
	driver    control.Driver
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger
}

func New(v *vehicle.Simulator, driver control.Driver) *Runner {
	return &Runner{
		vehicle:   v,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l zerolog.Logger) { r.log = l }

// Run steps from st0 for cfg.Duration and returns the recorded samples and
// metric values. On cancellation the partial result is returned with the error.
func (r *Runner) Run(ctx context.Context, st0 vehicle.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	rec := NewRecorder(cfg.SampleEvery)
	result := &Result{
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	r.log.Debug().
		Float64("dt", cfg.Dt).
		Float64("duration", cfg.Duration).
		Int64("seed", cfg.Seed).
		Msg("run started")

	final, err := r.loop(ctx, st0, cfg, func(st vehicle.State, in vehicle.Input, t float64) bool {
		rec.OnStep(st, in, t)
		for _, m := range r.metrics {
			m.Observe(st, in, t)
		}
		if t > 0 {
			result.StepsTaken++
		}
		return true
	})

	result.Samples = rec.Samples()
	result.Final = final
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if err != nil {
		r.log.Warn().Err(err).Int("steps", result.StepsTaken).Msg("run aborted")
		return result, err
	}
	r.log.Debug().Int("steps", result.StepsTaken).Msg("run finished")
	return result, nil
}

// RunWithCallback steps like Run but hands every frame to callback instead of
// recording it. Returning false from callback stops the run without error.
func (r *Runner) RunWithCallback(ctx context.Context, st0 vehicle.State, cfg Config, callback func(vehicle.State, vehicle.Input, float64) bool) (vehicle.State, error) {
	if err := validateConfig(cfg); err != nil {
		return st0, err
	}
	return r.loop(ctx, st0, cfg, callback)
}

func (r *Runner) loop(ctx context.Context, st0 vehicle.State, cfg Config, visit func(vehicle.State, vehicle.Input, float64) bool) (vehicle.State, error) {
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	st := st0.Clone()
	t := 0.0

	if !r.emit(st, vehicle.InputOf(st), t, visit) {
		return st, nil
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return st, &RunError{Step: i, Time: t, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())}
		default:
		}

		cmd := r.driver.Compute(st, t)
		st = control.Apply(r.vehicle, st, cmd.Ignition)
		st = r.vehicle.Advance(st, cmd.Input, cfg.Dt)
		t = float64(i+1) * cfg.Dt

		if !st.IsValid() {
			return st, &RunError{Step: i, Time: t, Wrapped: ErrInvalidState}
		}
		if !r.emit(st, cmd.Input, t, visit) {
			return st, nil
		}
	}
	return st, nil
}

func (r *Runner) emit(st vehicle.State, in vehicle.Input, t float64, visit func(vehicle.State, vehicle.Input, float64) bool) bool {
	for _, obs := range r.observers {
		obs.OnStep(st, in, t)
	}
	return visit(st, in, t)
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Duration < cfg.Dt {
		return fmt.Errorf("%w: duration %f shorter than dt %f", ErrInvalidConfig, cfg.Duration, cfg.Dt)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative", ErrInvalidConfig)
	}
	return nil
}
