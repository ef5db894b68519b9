package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cell dots, column-major:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Layer orders what a cell shows when several things touch it. Higher wins.
type Layer uint8

const (
	LayerEmpty Layer = iota
	LayerRoad
	LayerTraffic
	LayerPlayer
)

// Canvas is a braille dot canvas of Width x Height cells, i.e. 2*Width by
// 4*Height dots. Each cell also remembers the highest layer drawn into it for
// coloring.
type Canvas struct {
	Width, Height int
	dots          [][]rune
	layer         [][]Layer
	tint          [][]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.dots = make([][]rune, h)
	c.layer = make([][]Layer, h)
	c.tint = make([][]string, h)
	for i := 0; i < h; i++ {
		c.dots[i] = make([]rune, w)
		c.layer[i] = make([]Layer, w)
		c.tint[i] = make([]string, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.dots {
		for j := range c.dots[i] {
			c.dots[i][j] = brailleBlank
			c.layer[i][j] = LayerEmpty
			c.tint[i][j] = ""
		}
	}
}

// Set lights dot (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int, l Layer) {
	c.SetTint(x, y, l, "")
}

// SetTint is Set with a color for the cell, used by traffic cars.
func (c *Canvas) SetTint(x, y int, l Layer, color string) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.dots[row][col] |= pixelMap[y%4][x%2]
	if l >= c.layer[row][col] {
		c.layer[row][col] = l
		if color != "" {
			c.tint[row][col] = color
		}
	}
}

// Lit reports whether dot (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.dots[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int, l Layer) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, l)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Render colors each cell by its top layer using the current theme.
func (c *Canvas) Render(th Theme) string {
	styles := map[Layer]lipgloss.Style{
		LayerEmpty:   lipgloss.NewStyle().Foreground(th.Muted),
		LayerRoad:    lipgloss.NewStyle().Foreground(th.Road),
		LayerTraffic: lipgloss.NewStyle().Foreground(th.Secondary),
		LayerPlayer:  lipgloss.NewStyle().Foreground(th.Primary).Bold(true),
	}

	var b strings.Builder
	for i, row := range c.dots {
		for j, r := range row {
			st := styles[c.layer[i][j]]
			if tint := c.tint[i][j]; tint != "" {
				st = st.Foreground(lipgloss.Color(tint))
			}
			b.WriteString(st.Render(string(r)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// String renders without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.dots {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
