package sim

import "github.com/san-kum/stickshift/internal/vehicle"

type Metric interface {
	Name() string
	Observe(st vehicle.State, in vehicle.Input, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(st vehicle.State, in vehicle.Input, t float64)
}

type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	// SampleEvery keeps every n-th step in Result.Samples; 0 keeps all.
	SampleEvery int `yaml:"sample_every,omitempty"`
}

// Sample is one recorded frame. Traffic is not recorded.
type Sample struct {
	Time  float64
	State vehicle.State
	Input vehicle.Input
}

type Result struct {
	Samples    []Sample
	Final      vehicle.State
	Metrics    map[string]float64
	StepsTaken int
}
