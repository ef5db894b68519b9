package control

import "github.com/san-kum/stickshift/internal/vehicle"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(st vehicle.State, t float64) Command {
	return Command{Input: vehicle.Input{Gear: vehicle.Neutral}}
}
