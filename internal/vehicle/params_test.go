package vehicle

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		curve  bool
	}{
		{"single point curve", func(p *Params) { p.Engine.Torque = p.Engine.Torque[:1] }, true},
		{"repeated rpm", func(p *Params) { p.Engine.Torque[2].RPM = p.Engine.Torque[1].RPM }, true},
		{"decreasing rpm", func(p *Params) { p.Engine.Torque[3].RPM = 100 }, true},
		{"stall above idle", func(p *Params) { p.Engine.StallRPM = 900 }, false},
		{"missing gear", func(p *Params) { delete(p.Drivetrain.GearRatios, Third) }, false},
		{"inverted bite zone", func(p *Params) { p.Drivetrain.BiteStart = 0.7 }, false},
		{"zero mass", func(p *Params) { p.Chassis.Mass = 0 }, false},
		{"nan wheel radius", func(p *Params) { p.Drivetrain.WheelRadius = math.NaN() }, false},
		{"road wider than block", func(p *Params) { p.Grid.RoadWidth = 100 }, false},
		{"empty palette", func(p *Params) { p.Traffic.Palette = nil }, false},
		{"zero max dt", func(p *Params) { p.MaxDt = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
			if tt.curve && !errors.Is(err, ErrTorqueCurve) {
				t.Errorf("expected ErrTorqueCurve, got %v", err)
			}
		})
	}
}

func TestParamsCloneIsDeep(t *testing.T) {
	p := DefaultParams()
	c := p.Clone()
	c.Engine.Torque[1].Torque = 999
	c.Drivetrain.GearRatios[First] = 9
	c.Traffic.Palette[0] = "#123456"

	if p.Engine.Torque[1].Torque != 200 {
		t.Error("clone shares torque curve")
	}
	if p.GearRatio(First) != 3.4 {
		t.Error("clone shares gear ratios")
	}
	if p.Traffic.Palette[0] != "#ffffff" {
		t.Error("clone shares palette")
	}
}

func TestTorqueCurve(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		rpm  float64
		want float64
	}{
		{0, 0},
		{800, 200},
		{1500, 260},
		{2500, 300},
		{4500, 310},
		{7200, 150},
		{1150, 230},
		{3500, 305},
		{6600, 215},
		{-1, 0},
		{7201, 0},
	}

	for _, tt := range tests {
		got := p.Torque(tt.rpm)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Torque(%v) = %v, want %v", tt.rpm, got, tt.want)
		}
	}
}

func TestLoadFactor(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		gear   Gear
		clutch float64
		want   float64
	}{
		{Neutral, 0, 0},
		{Neutral, 0.45, 0},
		{First, 1, 0},
		{First, 0.7, 0},
		{First, 0.6, 0},
		{First, 0.45, 0.4},
		{First, 0.3, 0.8},
		{First, 0.29, 1},
		{First, 0, 1},
		{Reverse, 0, 1},
		{Fifth, 0.5, 0.8 / 3},
	}

	for _, tt := range tests {
		got := p.LoadFactor(tt.gear, tt.clutch)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LoadFactor(%s, %v) = %v, want %v", tt.gear, tt.clutch, got, tt.want)
		}
	}
}

func TestTargetEngineRPM(t *testing.T) {
	p := DefaultParams()
	v := 20 / 3.6

	want := v * 60 / (2 * math.Pi * 0.3) * 3.4 * 4.1
	if got := p.TargetEngineRPM(First, v); math.Abs(got-want) > 1e-9 {
		t.Errorf("first gear target = %v, want %v", got, want)
	}
	if got := p.TargetEngineRPM(Neutral, v); got != 0 {
		t.Errorf("neutral target = %v, want 0", got)
	}
	if got := p.TargetEngineRPM(Reverse, -v); got <= 0 {
		t.Errorf("reverse target should be positive, got %v", got)
	}
}

func TestOnRoad(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		x, z float64
		want bool
	}{
		{0, 0, true},
		{0, 40, true},
		{40, 0, true},
		{9, 40, true},
		{-9, 40, true},
		{9.5, 40, false},
		{40, 40, false},
		{80, -40, true},
		{-120.5, 41, false},
		{160, 249, true},
	}

	for _, tt := range tests {
		if got := p.OnRoad(tt.x, tt.z); got != tt.want {
			t.Errorf("OnRoad(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}
