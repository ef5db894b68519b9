package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(9)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

	gearStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.ThickBorder())

	alertStyle = lipgloss.NewStyle().Bold(true).Blink(true)
)

// needles are indexed by the dial angle in 45 degree steps, clockwise from
// three o'clock.
var needles = []string{"→", "↘", "↓", "↙", "←", "↖", "↑", "↗"}

// Needle picks the arrow closest to a dial angle in degrees.
func Needle(deg float64) string {
	i := int(math.Round(deg/45)) % len(needles)
	if i < 0 {
		i += len(needles)
	}
	return needles[i]
}

// PedalBar renders travel in [0,1] as a fixed width bar.
func PedalBar(v float64, width int, color lipgloss.Color) string {
	filled := int(math.Round(v * float64(width)))
	filled = max(0, min(width, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// RevBar is a tachometer strip that turns red past the redline.
func RevBar(rpm, redline, maxRPM float64, width int, th Theme) string {
	if maxRPM <= 0 || width <= 0 {
		return ""
	}
	lit := int(math.Round(rpm / maxRPM * float64(width)))
	red := int(math.Round(redline / maxRPM * float64(width)))

	var b strings.Builder
	for i := 0; i < width; i++ {
		color := th.Success
		switch {
		case i >= red:
			color = th.Redline
		case i >= red*3/4:
			color = th.Warning
		}
		ch := "▁"
		if i < lit {
			ch = "█"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(ch))
	}
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func rowf(label, format string, args ...any) string {
	return row(label, fmt.Sprintf(format, args...))
}
