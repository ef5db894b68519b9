package vehicle

import "math"

// nearestLine returns the coordinate of the closest road centerline.
func (p Params) nearestLine(c float64) float64 {
	return math.Round(c/p.Grid.BlockSize) * p.Grid.BlockSize
}

// OnRoad reports whether (x, z) lies within half a road width of a grid line
// in either axis. Everything else is a building footprint.
func (p Params) OnRoad(x, z float64) bool {
	half := p.Grid.RoadWidth / 2
	return math.Abs(x-p.nearestLine(x)) <= half || math.Abs(z-p.nearestLine(z)) <= half
}
