package storage

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

// RouteSVG draws the driven path over the road grid it crossed. World z grows
// downward on the page.
func RouteSVG(samples []sim.Sample, grid vehicle.GridParams, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	minX, maxX := samples[0].State.X, samples[0].State.X
	minZ, maxZ := samples[0].State.Z, samples[0].State.Z
	for _, s := range samples {
		minX = math.Min(minX, s.State.X)
		maxX = math.Max(maxX, s.State.X)
		minZ = math.Min(minZ, s.State.Z)
		maxZ = math.Max(maxZ, s.State.Z)
	}

	// pad to the surrounding blocks
	minX = math.Floor(minX/grid.BlockSize)*grid.BlockSize - grid.BlockSize/2
	maxX = math.Ceil(maxX/grid.BlockSize)*grid.BlockSize + grid.BlockSize/2
	minZ = math.Floor(minZ/grid.BlockSize)*grid.BlockSize - grid.BlockSize/2
	maxZ = math.Ceil(maxZ/grid.BlockSize)*grid.BlockSize + grid.BlockSize/2

	scale := math.Min(float64(width)/(maxX-minX), float64(height)/(maxZ-minZ))
	px := func(x float64) float64 { return (x - minX) * scale }
	pz := func(z float64) float64 { return (z - minZ) * scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#2a2a2a">
`, width, height, width, height))

	roadW := grid.RoadWidth * scale
	for x := math.Ceil(minX/grid.BlockSize) * grid.BlockSize; x <= maxX; x += grid.BlockSize {
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="0" width="%.1f" height="%d"/>
`, px(x)-roadW/2, roadW, height))
	}
	for z := math.Ceil(minZ/grid.BlockSize) * grid.BlockSize; z <= maxZ; z += grid.BlockSize {
		sb.WriteString(fmt.Sprintf(`<rect x="0" y="%.1f" width="%d" height="%.1f"/>
`, pz(z)-roadW/2, width, roadW))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
	for i, s := range samples {
		if i > 0 {
			sb.WriteString(" L")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(s.State.X), pz(s.State.Z)))
	}
	sb.WriteString("\"/>\n")

	// stalls in red
	for i := 1; i < len(samples); i++ {
		if samples[i].State.Stalled && !samples[i-1].State.Stalled {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#ef4444"/>
`, px(samples[i].State.X), pz(samples[i].State.Z)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
