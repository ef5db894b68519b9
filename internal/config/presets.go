package config

import (
	"sort"

	"github.com/san-kum/stickshift/internal/vehicle"
)

type preset struct {
	description string
	apply       func(*Config)
}

var presets = map[string]preset{
	"sedan": {
		description: "default sport sedan in light traffic",
		apply:       func(*Config) {},
	},
	"empty-city": {
		description: "no traffic, for scripted runs and benchmarks",
		apply: func(c *Config) {
			c.Vehicle.Traffic.Count = 0
		},
	},
	"rush-hour": {
		description: "dense, slow traffic",
		apply: func(c *Config) {
			c.Vehicle.Traffic.Count = 40
			c.Vehicle.Traffic.SpeedMin = 10
			c.Vehicle.Traffic.SpeedMax = 35
		},
	},
	"hatchback": {
		description: "light car with a small engine and short gearing",
		apply: func(c *Config) {
			c.Vehicle.Chassis.Mass = 1050
			c.Vehicle.Chassis.FrontalArea = 2.0
			c.Vehicle.Engine.Torque = []vehicle.TorquePoint{
				{RPM: 0, Torque: 0},
				{RPM: 800, Torque: 110},
				{RPM: 1500, Torque: 140},
				{RPM: 2500, Torque: 160},
				{RPM: 4500, Torque: 165},
				{RPM: 6000, Torque: 150},
				{RPM: 7200, Torque: 90},
			}
			c.Vehicle.Drivetrain.FinalDrive = 4.4
		},
	},
	"truck": {
		description: "heavy pickup, low redline and a grabby clutch",
		apply: func(c *Config) {
			c.Vehicle.Chassis.Mass = 2400
			c.Vehicle.Chassis.DragCoeff = 0.45
			c.Vehicle.Chassis.FrontalArea = 3.2
			c.Vehicle.Chassis.BrakeForce = 6000
			c.Vehicle.Engine.MaxRPM = 5000
			c.Vehicle.Engine.RedlineRPM = 4500
			c.Vehicle.Engine.Torque = []vehicle.TorquePoint{
				{RPM: 0, Torque: 0},
				{RPM: 800, Torque: 380},
				{RPM: 1500, Torque: 450},
				{RPM: 2500, Torque: 470},
				{RPM: 4000, Torque: 420},
				{RPM: 5000, Torque: 300},
			}
			c.Vehicle.Drivetrain.BiteStart = 0.35
			c.Vehicle.Drivetrain.BiteEnd = 0.5
			c.Vehicle.Drivetrain.CreepTorque = 700
		},
	},
	"ice": {
		description: "low grip, long braking",
		apply: func(c *Config) {
			c.Vehicle.Chassis.GripFactor = 0.35
			c.Vehicle.Chassis.BrakeForce = 1500
		},
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	p.apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string {
	return presets[name].description
}
