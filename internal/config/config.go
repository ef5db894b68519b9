package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultHz       = 60
)

// Config is a run file: vehicle parameters plus how to step them.
type Config struct {
	Preset  string         `yaml:"preset,omitempty"`
	Run     sim.Config     `yaml:"run"`
	Live    LiveConfig     `yaml:"live"`
	Vehicle vehicle.Params `yaml:"vehicle"`
}

type LiveConfig struct {
	Hz int `yaml:"hz"`
}

func DefaultConfig() *Config {
	return &Config{
		Run: sim.Config{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
		Live:    LiveConfig{Hz: DefaultHz},
		Vehicle: vehicle.DefaultParams(),
	}
}

// Load reads a config file over the defaults. When the file names a preset the
// preset is applied first and the file's own values on top of it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		if cfg = GetPreset(head.Preset); cfg == nil {
			return nil, fmt.Errorf("%s: unknown preset %q", path, head.Preset)
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return err
	}
	if c.Live.Hz <= 0 {
		return fmt.Errorf("live.hz must be positive, got %d", c.Live.Hz)
	}
	if !(c.Run.Dt > 0) || !(c.Run.Duration >= c.Run.Dt) {
		return fmt.Errorf("%w: need 0 < dt <= duration", sim.ErrInvalidConfig)
	}
	return nil
}
