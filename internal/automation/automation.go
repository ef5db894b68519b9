package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

// Scenario defines a scripted drive
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration,omitempty"` // defaults to the script length
	Seed        int64           `yaml:"seed"`
	Start       Start           `yaml:"start,omitempty"`
	Phases      []control.Phase `yaml:"phases"`
}

// Start overrides the parked initial state.
type Start struct {
	EngineOn bool         `yaml:"engine_on,omitempty"`
	Gear     vehicle.Gear `yaml:"gear,omitempty"`
	SpeedKmh float64      `yaml:"speed_kmh,omitempty"`
	X        float64      `yaml:"x,omitempty"`
	Z        float64      `yaml:"z,omitempty"`
	Heading  float64      `yaml:"heading,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Dt == 0 {
		scenario.Dt = 1.0 / 60
	}
	if _, err := scenario.Script(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Script builds a fresh driver for the scenario's phases.
func (s *Scenario) Script() (*control.Script, error) {
	script, err := control.NewScript(s.Phases)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return script, nil
}

func (s *Scenario) Config() sim.Config {
	cfg := sim.Config{Dt: s.Dt, Duration: s.Duration, Seed: s.Seed}
	if cfg.Duration == 0 {
		for _, ph := range s.Phases {
			cfg.Duration += ph.Duration
		}
	}
	return cfg
}

// InitialState applies Start to a parked car. A running engine in gear starts
// at the rpm its wheels imply, never below idle.
func (s *Scenario) InitialState(v *vehicle.Simulator) vehicle.State {
	st := vehicle.NewState()
	st.Gear = s.Start.Gear
	st.SpeedKmh = s.Start.SpeedKmh
	st.X, st.Z, st.Heading = s.Start.X, s.Start.Z, s.Start.Heading
	if s.Start.EngineOn {
		st = v.Ignite(st)
		p := v.Params()
		st.RPM = max(p.Engine.IdleRPM, p.TargetEngineRPM(st.Gear, st.Velocity()))
		st.RPM = min(st.RPM, p.Engine.MaxRPM)
	}
	return st
}

// RunScenario executes the scenario once with a simulator seeded from it.
func RunScenario(ctx context.Context, s *Scenario, params vehicle.Params, metrics []sim.Metric, log zerolog.Logger) (*sim.Result, error) {
	v, err := vehicle.New(params, s.Seed)
	if err != nil {
		return nil, err
	}
	script, err := s.Script()
	if err != nil {
		return nil, err
	}

	r := sim.New(v, script)
	r.SetLogger(log)
	for _, m := range metrics {
		r.AddMetric(m)
	}

	log.Info().Str("scenario", s.Name).Int("phases", len(s.Phases)).Msg("running scenario")
	result, err := r.Run(ctx, s.InitialState(v), s.Config())
	if err != nil {
		return result, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return result, nil
}
