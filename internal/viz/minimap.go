package viz

import (
	"math"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// Minimap is a north-up braille map centered on the player. World z grows
// downward on screen, so heading 0 points up.
type Minimap struct {
	params vehicle.Params
	canvas *Canvas
	scale  float64 // meters per dot
}

func NewMinimap(p vehicle.Params, w, h int, scale float64) *Minimap {
	if scale <= 0 {
		scale = 2
	}
	return &Minimap{params: p, canvas: NewCanvas(w, h), scale: scale}
}

func (m *Minimap) Canvas() *Canvas { return m.canvas }

// Zoom multiplies the scale, keeping it within [0.5, 10] m per dot.
func (m *Minimap) Zoom(f float64) {
	m.scale = math.Min(10, math.Max(0.5, m.scale*f))
}

func (m *Minimap) project(st vehicle.State, x, z float64) (int, int) {
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	px := int(math.Round((x-st.X)/m.scale)) + cw/2
	py := int(math.Round((z-st.Z)/m.scale)) + ch/2
	return px, py
}

func (m *Minimap) Draw(st vehicle.State) *Canvas {
	c := m.canvas
	c.Clear()
	cw, ch := c.Width*2, c.Height*4

	// road edges: on-road dots with an off-road neighbour
	s := m.scale
	for py := 0; py < ch; py++ {
		for px := 0; px < cw; px++ {
			x := st.X + float64(px-cw/2)*s
			z := st.Z + float64(py-ch/2)*s
			if !m.params.OnRoad(x, z) {
				continue
			}
			if !m.params.OnRoad(x+s, z) || !m.params.OnRoad(x-s, z) ||
				!m.params.OnRoad(x, z+s) || !m.params.OnRoad(x, z-s) {
				c.Set(px, py, LayerRoad)
			}
		}
	}

	for _, car := range st.Traffic {
		px, py := m.project(st, car.X, car.Z)
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				c.SetTint(px+dx, py+dy, LayerTraffic, car.Color)
			}
		}
	}

	px, py := cw/2, ch/2
	tipX := px + int(math.Round(-math.Sin(st.Heading)*3))
	tipY := py + int(math.Round(-math.Cos(st.Heading)*3))
	c.Line(px, py, tipX, tipY, LayerPlayer)
	c.Set(px+1, py, LayerPlayer)
	c.Set(px, py+1, LayerPlayer)
	return c
}
