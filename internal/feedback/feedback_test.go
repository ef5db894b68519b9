package feedback

import (
	"math"
	"testing"

	"github.com/san-kum/stickshift/internal/vehicle"
)

func TestEngineTone(t *testing.T) {
	if got := EngineTone(40, 1); got != (Tone{}) {
		t.Errorf("expected silence below 50 rpm, got %+v", got)
	}

	got := EngineTone(3500, 0.5)
	if got.Freq != 215 || got.Harmonic != 322.5 {
		t.Errorf("unexpected frequencies %+v", got)
	}
	if math.Abs(got.Volume-0.15) > 1e-9 {
		t.Errorf("expected volume 0.15, got %v", got.Volume)
	}
}

func TestTireSqueal(t *testing.T) {
	tests := []struct {
		name   string
		slip   float64
		speed  float64
		active bool
		volume float64
	}{
		{"grip", 0.1, 60, false, 0},
		{"at threshold", 0.2, 60, false, 0},
		{"parked", 0.8, 4, false, 0},
		{"sliding", 0.4, 60, true, 0.1},
		{"reverse slide", 0.4, -60, true, 0.1},
		{"capped", 1.0, 60, true, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TireSqueal(tt.slip, tt.speed)
			if got.Active != tt.active {
				t.Fatalf("active = %v, want %v", got.Active, tt.active)
			}
			if math.Abs(got.Volume-tt.volume) > 1e-9 {
				t.Errorf("volume = %v, want %v", got.Volume, tt.volume)
			}
			if tt.active && got.Pitch != 920 {
				t.Errorf("pitch = %v, want 920", got.Pitch)
			}
		})
	}
}

func TestCues(t *testing.T) {
	st := vehicle.State{
		EngineOn:      true,
		RPM:           3000,
		SpeedKmh:      -50,
		GasPedal:      0.5,
		BrakePedal:    0.2,
		SteeringInput: 0.5,
		TireSlip:      0.3,
	}
	c := For(st)

	if !c.BrakeLight {
		t.Error("brake light should be on above 0.1")
	}
	if math.Abs(c.Pitch-(0.01-0.006)) > 1e-12 {
		t.Errorf("unexpected pitch %v", c.Pitch)
	}
	if math.Abs(c.Roll-0.1) > 1e-12 {
		t.Errorf("unexpected roll %v", c.Roll)
	}
	if !c.Smoke || !c.Squeal.Active {
		t.Error("expected smoke and squeal while sliding")
	}
	if c.Shake {
		t.Error("running engine should not shake")
	}

	parked := For(vehicle.State{Stalled: true, BrakePedal: 0.1, TireSlip: 0.5, SpeedKmh: 0.5})
	if parked.BrakeLight || parked.Smoke || parked.Engine.Volume != 0 {
		t.Errorf("unexpected cues for a stalled car %+v", parked)
	}
	if !parked.Shake {
		t.Error("stalled car should shake")
	}
}

func TestGaugeAngle(t *testing.T) {
	tests := []struct {
		value, max float64
		want       float64
	}{
		{0, 8000, 135},
		{4000, 8000, 270},
		{8000, 8000, 405},
		{9000, 8000, 135 + 1.08*270},
		{-20, 200, 135},
		{100, 0, 135},
	}
	for _, tt := range tests {
		if got := GaugeAngle(tt.value, tt.max); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GaugeAngle(%v, %v) = %v, want %v", tt.value, tt.max, got, tt.want)
		}
	}
}
