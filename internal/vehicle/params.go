package vehicle

import (
	"fmt"
	"math"
)

type TorquePoint struct {
	RPM    float64 `yaml:"rpm" json:"rpm"`
	Torque float64 `yaml:"torque" json:"torque"`
}

type EngineParams struct {
	IdleRPM    float64       `yaml:"idle_rpm"`
	MaxRPM     float64       `yaml:"max_rpm"`
	RedlineRPM float64       `yaml:"redline_rpm"`
	StallRPM   float64       `yaml:"stall_rpm"`
	Torque     []TorquePoint `yaml:"torque_curve"`
}

type DrivetrainParams struct {
	GearRatios    map[Gear]float64 `yaml:"gear_ratios"`
	FinalDrive    float64          `yaml:"final_drive"`
	Efficiency    float64          `yaml:"efficiency"`
	WheelRadius   float64          `yaml:"wheel_radius"`
	BiteStart     float64          `yaml:"bite_start"`
	BiteEnd       float64          `yaml:"bite_end"`
	BiteMaxLoad   float64          `yaml:"bite_max_load"`
	CreepTorque   float64          `yaml:"creep_torque"`
	FuelCutTorque float64          `yaml:"fuel_cut_torque"`
}

type ChassisParams struct {
	Mass         float64 `yaml:"mass"`
	DragCoeff    float64 `yaml:"drag_coeff"`
	AirDensity   float64 `yaml:"air_density"`
	FrontalArea  float64 `yaml:"frontal_area"`
	RollingCoeff float64 `yaml:"rolling_coeff"`
	Gravity      float64 `yaml:"gravity"`
	BrakeForce   float64 `yaml:"brake_force"`
	GripFactor   float64 `yaml:"grip_factor"`
}

type SteeringParams struct {
	Wheelbase     float64 `yaml:"wheelbase"`
	MaxSteerAngle float64 `yaml:"max_steer_angle"`
	CurveSpeed    float64 `yaml:"curve_speed"`
}

type GridParams struct {
	BlockSize float64 `yaml:"block_size"`
	RoadWidth float64 `yaml:"road_width"`
}

type TrafficParams struct {
	Count       int      `yaml:"count"`
	SpawnRadius float64  `yaml:"spawn_radius"`
	SpeedMin    float64  `yaml:"speed_min"`
	SpeedMax    float64  `yaml:"speed_max"`
	Palette     []string `yaml:"palette"`
}

// Params is the single configuration table for a simulation.
type Params struct {
	Engine     EngineParams     `yaml:"engine"`
	Drivetrain DrivetrainParams `yaml:"drivetrain"`
	Chassis    ChassisParams    `yaml:"chassis"`
	Steering   SteeringParams   `yaml:"steering"`
	Grid       GridParams       `yaml:"grid"`
	Traffic    TrafficParams    `yaml:"traffic"`
	MaxDt      float64          `yaml:"max_dt"`
}

// DefaultParams is a 1300 kg sport sedan with a five-speed box, geared long.
func DefaultParams() Params {
	return Params{
		Engine: EngineParams{
			IdleRPM:    800,
			MaxRPM:     7200,
			RedlineRPM: 6500,
			StallRPM:   300,
			Torque: []TorquePoint{
				{0, 0},
				{800, 200},
				{1500, 260},
				{2500, 300},
				{4500, 310},
				{6000, 280},
				{7200, 150},
			},
		},
		Drivetrain: DrivetrainParams{
			GearRatios: map[Gear]float64{
				Reverse: 3.8,
				Neutral: 0,
				First:   3.4,
				Second:  2.0,
				Third:   1.4,
				Fourth:  1.0,
				Fifth:   0.8,
			},
			FinalDrive:    4.1,
			Efficiency:    0.9,
			WheelRadius:   0.3,
			BiteStart:     0.3,
			BiteEnd:       0.6,
			BiteMaxLoad:   0.8,
			CreepTorque:   450,
			FuelCutTorque: -50,
		},
		Chassis: ChassisParams{
			Mass:         1300,
			DragCoeff:    0.32,
			AirDensity:   1.225,
			FrontalArea:  2.2,
			RollingCoeff: 0.015,
			Gravity:      9.8,
			BrakeForce:   4000,
			GripFactor:   0.9,
		},
		Steering: SteeringParams{
			Wheelbase:     2.7,
			MaxSteerAngle: 0.65,
			CurveSpeed:    80,
		},
		Grid: GridParams{
			BlockSize: 80,
			RoadWidth: 18,
		},
		Traffic: TrafficParams{
			Count:       15,
			SpawnRadius: 150,
			SpeedMin:    20,
			SpeedMax:    60,
			Palette:     []string{"#ffffff", "#3b82f6", "#eab308", "#ef4444", "#64748b", "#000000"},
		},
		MaxDt: 0.1,
	}
}

// GearRatio returns 0 for neutral and for gears missing from the table.
func (p Params) GearRatio(g Gear) float64 {
	return p.Drivetrain.GearRatios[g]
}

// Validate checks the table once; the tick code does not re-check it.
func (p Params) Validate() error {
	curve := p.Engine.Torque
	if len(curve) < 2 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, ErrTorqueCurve)
	}
	for i := 1; i < len(curve); i++ {
		if !(curve[i].RPM > curve[i-1].RPM) {
			return fmt.Errorf("%w: %w (point %d: %.0f after %.0f)", ErrInvalidParams, ErrTorqueCurve, i, curve[i].RPM, curve[i-1].RPM)
		}
	}

	e := p.Engine
	if !(e.StallRPM > 0 && e.StallRPM < e.IdleRPM && e.IdleRPM < e.MaxRPM) {
		return fmt.Errorf("%w: need 0 < stall_rpm < idle_rpm < max_rpm", ErrInvalidParams)
	}

	d := p.Drivetrain
	for g := Reverse; g <= Fifth; g++ {
		if g == Neutral {
			continue
		}
		r, ok := d.GearRatios[g]
		if !ok || r <= 0 {
			return fmt.Errorf("%w: gear %s needs a positive ratio", ErrInvalidParams, g)
		}
	}
	if !(d.BiteStart >= 0 && d.BiteStart < d.BiteEnd && d.BiteEnd <= 1) {
		return fmt.Errorf("%w: need 0 <= bite_start < bite_end <= 1", ErrInvalidParams)
	}
	if d.BiteMaxLoad <= 0 || d.BiteMaxLoad > 1 {
		return fmt.Errorf("%w: bite_max_load must be in (0,1]", ErrInvalidParams)
	}

	positive := map[string]float64{
		"final_drive":  d.FinalDrive,
		"efficiency":   d.Efficiency,
		"wheel_radius": d.WheelRadius,
		"mass":         p.Chassis.Mass,
		"gravity":      p.Chassis.Gravity,
		"grip_factor":  p.Chassis.GripFactor,
		"wheelbase":    p.Steering.Wheelbase,
		"curve_speed":  p.Steering.CurveSpeed,
		"block_size":   p.Grid.BlockSize,
		"road_width":   p.Grid.RoadWidth,
		"spawn_radius": p.Traffic.SpawnRadius,
		"max_dt":       p.MaxDt,
	}
	for name, v := range positive {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, name, v)
		}
	}
	if p.Grid.RoadWidth >= p.Grid.BlockSize {
		return fmt.Errorf("%w: road_width must be smaller than block_size", ErrInvalidParams)
	}
	if p.Traffic.Count < 0 {
		return fmt.Errorf("%w: traffic count must not be negative", ErrInvalidParams)
	}
	if p.Traffic.SpeedMin < 0 || p.Traffic.SpeedMax < p.Traffic.SpeedMin {
		return fmt.Errorf("%w: need 0 <= speed_min <= speed_max", ErrInvalidParams)
	}
	if p.Traffic.Count > 0 && len(p.Traffic.Palette) == 0 {
		return fmt.Errorf("%w: traffic palette is empty", ErrInvalidParams)
	}
	return nil
}

// Clone deep-copies the table so overrides never touch the defaults.
func (p Params) Clone() Params {
	c := p
	c.Engine.Torque = append([]TorquePoint(nil), p.Engine.Torque...)
	c.Drivetrain.GearRatios = make(map[Gear]float64, len(p.Drivetrain.GearRatios))
	for g, r := range p.Drivetrain.GearRatios {
		c.Drivetrain.GearRatios[g] = r
	}
	c.Traffic.Palette = append([]string(nil), p.Traffic.Palette...)
	return c
}
