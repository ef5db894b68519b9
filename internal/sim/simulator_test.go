package sim

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/vehicle"
)

func quietVehicle(t *testing.T, seed int64) *vehicle.Simulator {
	t.Helper()
	p := vehicle.DefaultParams()
	p.Traffic.Count = 0
	v, err := vehicle.New(p, seed)
	if err != nil {
		t.Fatalf("vehicle: %v", err)
	}
	return v
}

type countMetric struct {
	n int
}

func (c *countMetric) Name() string                                 { return "count" }
func (c *countMetric) Observe(vehicle.State, vehicle.Input, float64) { c.n++ }
func (c *countMetric) Value() float64                               { return float64(c.n) }
func (c *countMetric) Reset()                                       { c.n = 0 }

func launchScript(t *testing.T) *control.Script {
	t.Helper()
	s, err := control.NewScript([]control.Phase{
		{Name: "start", Duration: 0.5, Clutch: control.Hold(1), Gear: vehicle.First, Ignition: "on"},
		{Name: "bite", Duration: 3, Clutch: control.Hold(0.4), Gas: control.Hold(0.5), Gear: vehicle.First},
		{Name: "pull", Duration: 1.5, Gas: control.Hold(0.6), Gear: vehicle.First},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunnerRun(t *testing.T) {
	r := New(quietVehicle(t, 1), control.NewNone())
	m := &countMetric{}
	r.AddMetric(m)

	result, err := r.Run(context.Background(), vehicle.NewState(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if result.Metrics["count"] != 11 {
		t.Errorf("metric should see every frame, got %v", result.Metrics["count"])
	}

	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.Time-1.0) > 1e-9 {
		t.Errorf("expected last sample at t=1, got %v", last.Time)
	}
	for i := 1; i < len(result.Samples); i++ {
		if result.Samples[i].Time <= result.Samples[i-1].Time {
			t.Fatalf("sample times not increasing at %d", i)
		}
	}
}

func TestRunnerDrivesScript(t *testing.T) {
	r := New(quietVehicle(t, 1), launchScript(t))

	result, err := r.Run(context.Background(), vehicle.NewState(), Config{Dt: 1.0 / 60, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Final
	if !final.EngineOn || final.Stalled {
		t.Fatalf("expected a running engine after launch, got %+v", final)
	}
	if final.SpeedKmh < 10 {
		t.Errorf("expected the car to pull away, got %.1f km/h", final.SpeedKmh)
	}
}

func TestRunnerSampleEvery(t *testing.T) {
	r := New(quietVehicle(t, 1), control.NewNone())
	result, err := r.Run(context.Background(), vehicle.NewState(), Config{Dt: 0.1, Duration: 1.0, SampleEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Samples) != 3 {
		t.Errorf("expected 3 samples, got %d", len(result.Samples))
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(quietVehicle(t, 1), control.NewNone())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1}},
		{"negative duration", Config{Dt: 0.1, Duration: -1}},
		{"duration below dt", Config{Dt: 0.1, Duration: 0.05}},
		{"negative sampling", Config{Dt: 0.1, Duration: 1, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), vehicle.NewState(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerCanceled(t *testing.T) {
	r := New(quietVehicle(t, 1), control.NewNone())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, vehicle.NewState(), Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Step != 0 {
		t.Errorf("expected RunError at step 0, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	r := New(quietVehicle(t, 1), control.NewNone())
	calls := 0
	_, err := r.RunWithCallback(context.Background(), vehicle.NewState(), Config{Dt: 0.1, Duration: 10},
		func(vehicle.State, vehicle.Input, float64) bool {
			calls++
			return calls < 5
		})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestEnsembleSeeds(t *testing.T) {
	factory := func(seed int64) (*Runner, error) {
		v, err := vehicle.New(vehicle.DefaultParams(), seed)
		if err != nil {
			return nil, err
		}
		return New(v, control.NewNone()), nil
	}
	cfg := Config{Dt: 0.05, Duration: 2}

	e := NewEnsemble(factory, 4, 100)
	e.SetWorkers(2)
	a, err := e.Run(context.Background(), vehicle.NewState(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	b, err := NewEnsemble(factory, 4, 100).Run(context.Background(), vehicle.NewState(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(a) != 4 {
		t.Fatalf("expected 4 results, got %d", len(a))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i].Final, b[i].Final) {
			t.Errorf("run %d not reproducible", i)
		}
	}
	if reflect.DeepEqual(a[0].Final.Traffic, a[1].Final.Traffic) {
		t.Error("different seeds produced identical traffic")
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(int64) (*Runner, error) { return nil, boom }, 3, 0)
	if _, err := e.Run(context.Background(), vehicle.NewState(), Config{Dt: 0.1, Duration: 1}); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
	if _, err := NewEnsemble(nil, 0, 0).Run(context.Background(), vehicle.NewState(), Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLiveStepPublishesWholeFrames(t *testing.T) {
	manual := control.NewManual()
	l := NewLive(quietVehicle(t, 1), manual, vehicle.NewState(), 60)
	rec := NewRecorder(1)
	l.AddObserver(rec)

	manual.TurnKey(control.KeyOn)
	manual.SetInput(vehicle.Input{Gas: 0.5})
	for i := 0; i < 5; i++ {
		l.step(0.1)
	}

	snap := l.Snapshot()
	if !snap.EngineOn || snap.RPM <= 800 {
		t.Errorf("expected revving engine, got %+v", snap)
	}
	if math.Abs(l.Elapsed().Seconds()-0.5) > 1e-6 {
		t.Errorf("expected 0.5s elapsed, got %v", l.Elapsed())
	}
	if rec.Len() != 5 {
		t.Errorf("expected 5 recorded frames, got %d", rec.Len())
	}

	l.step(5)
	if math.Abs(l.Elapsed().Seconds()-0.6) > 1e-6 {
		t.Errorf("long frame should be clamped, elapsed %v", l.Elapsed())
	}
}

func TestLiveRunUntilCanceled(t *testing.T) {
	v, err := vehicle.New(vehicle.DefaultParams(), 9)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLive(v, control.NewNone(), vehicle.NewState(), 200)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("live loop failed: %v", err)
			}
			if l.Elapsed() <= 0 {
				t.Error("live loop never stepped")
			}
			if n := len(l.Snapshot().Traffic); n != 15 {
				t.Errorf("expected 15 traffic cars, got %d", n)
			}
			return
		default:
			if !l.Snapshot().IsValid() {
				t.Fatal("observed invalid snapshot")
			}
			time.Sleep(time.Millisecond)
		}
	}
}
