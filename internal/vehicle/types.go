package vehicle

import (
	"fmt"
	"math"
	"strconv"
)

type Gear int

const (
	Reverse Gear = -1
	Neutral Gear = 0
	First   Gear = 1
	Second  Gear = 2
	Third   Gear = 3
	Fourth  Gear = 4
	Fifth   Gear = 5
)

func (g Gear) String() string {
	switch {
	case g == Reverse:
		return "R"
	case g == Neutral:
		return "N"
	case g >= First && g <= Fifth:
		return fmt.Sprintf("%d", int(g))
	}
	return fmt.Sprintf("Gear(%d)", int(g))
}

func (g Gear) Valid() bool { return g >= Reverse && g <= Fifth }

// ParseGear accepts "R", "N" and "1".."5".
func ParseGear(s string) (Gear, error) {
	switch s {
	case "R", "r":
		return Reverse, nil
	case "N", "n", "0":
		return Neutral, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Gear(n).Valid() {
		return Neutral, fmt.Errorf("unknown gear: %q", s)
	}
	return Gear(n), nil
}

func (g Gear) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid gear %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *Gear) UnmarshalText(b []byte) error {
	v, err := ParseGear(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

type TrafficCar struct {
	ID       uint64  `json:"id"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Heading  float64 `json:"heading"`
	SpeedKmh float64 `json:"speed_kmh"`
	Color    string  `json:"color"`
}

// State is the full vehicle state. Pedal fields hold pedal positions:
// 1 means fully pressed for all three pedals.
type State struct {
	EngineOn bool
	Stalled  bool

	RPM      float64
	SpeedKmh float64
	Gear     Gear

	ClutchPedal   float64
	GasPedal      float64
	BrakePedal    float64
	SteeringInput float64

	X, Z    float64
	Heading float64

	TireSlip         float64
	DistanceTraveled float64

	Traffic []TrafficCar

	nextTrafficID uint64
}

// NewState returns a parked car: engine off, neutral, at the origin.
func NewState() State {
	return State{Gear: Neutral}
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	if s.Traffic != nil {
		c.Traffic = make([]TrafficCar, len(s.Traffic))
		copy(c.Traffic, s.Traffic)
	}
	return c
}

// Velocity is the signed longitudinal speed in m/s.
func (s State) Velocity() float64 { return s.SpeedKmh / 3.6 }

func (s State) IsValid() bool {
	for _, v := range []float64{s.RPM, s.SpeedKmh, s.X, s.Z, s.Heading, s.TireSlip, s.DistanceTraveled} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Input is one frame of driver input. Values are expected in their domains
// but are clamped again before use.
type Input struct {
	Gas      float64 `json:"gas" yaml:"gas"`
	Brake    float64 `json:"brake" yaml:"brake"`
	Clutch   float64 `json:"clutch" yaml:"clutch"`
	Steering float64 `json:"steering" yaml:"steering"`
	Gear     Gear    `json:"gear" yaml:"gear"`
}

// Clamped returns the input with pedals in [0,1], steering in [-1,1] and an
// out-of-range gear replaced by neutral.
func (in Input) Clamped() Input {
	in.Gas = clamp(in.Gas, 0, 1)
	in.Brake = clamp(in.Brake, 0, 1)
	in.Clutch = clamp(in.Clutch, 0, 1)
	in.Steering = clamp(in.Steering, -1, 1)
	if !in.Gear.Valid() {
		in.Gear = Neutral
	}
	return in
}

// InputOf reads the controls currently held in a state.
func InputOf(s State) Input {
	return Input{
		Gas:      s.GasPedal,
		Brake:    s.BrakePedal,
		Clutch:   s.ClutchPedal,
		Steering: s.SteeringInput,
		Gear:     s.Gear,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signum(v float64) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}
