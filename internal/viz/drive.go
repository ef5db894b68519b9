package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stickshift/internal/cockpit"
	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/feedback"
	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

const (
	frameRate       = 60
	historyCapacity = 240
	mapWidth        = 36
	mapHeight       = 16
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// key names as bubbletea reports them, per control
var controlKeys = map[string][]string{
	"gas":    {"w"},
	"brake":  {"s"},
	"clutch": {" ", "c"},
	"left":   {"a", "left"},
	"right":  {"d", "right"},
}

// Model is the drive screen. The simulation runs in sim.Live on its own
// goroutine; the model only shapes input and draws snapshots.
type Model struct {
	live    *sim.Live
	manual  *control.Manual
	params  vehicle.Params
	shaper  cockpit.Shaper
	latch   *cockpit.Latch
	minimap *Minimap
	theme   Theme

	input    vehicle.Input
	snap     vehicle.State
	rpmHist  []float64
	lastTick time.Time
	showHelp bool
	width    int
	height   int
}

func NewModel(live *sim.Live, manual *control.Manual, p vehicle.Params) Model {
	snap := live.Snapshot()
	return Model{
		live:    live,
		manual:  manual,
		params:  p,
		shaper:  cockpit.NewShaper(p),
		latch:   cockpit.NewLatch(cockpit.DefaultHold),
		minimap: NewMinimap(p, mapWidth, mapHeight, 2),
		theme:   Themes[0],
		input:   vehicle.InputOf(snap),
		snap:    snap,
		width:   100,
		height:  30,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		m.frame(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "i":
		m.manual.TurnKey(control.KeyToggle)
	case "up":
		m.input.Gear = cockpit.ShiftUp(m.input.Gear)
	case "down":
		m.input.Gear = cockpit.ShiftDown(m.input.Gear)
	case "1", "2", "3", "4", "5":
		m.input.Gear = vehicle.Gear(key[0] - '0')
	case "r":
		m.input.Gear = vehicle.Reverse
	case "n", "0":
		m.input.Gear = vehicle.Neutral
	case "+", "=":
		m.minimap.Zoom(0.8)
	case "-", "_":
		m.minimap.Zoom(1.25)
	case "t":
		m.theme = NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	default:
		m.latch.Press(key, now)
	}
	m.manual.SetInput(m.input)
	return m, nil
}

func (m *Model) held(name string, now time.Time) bool {
	for _, k := range controlKeys[name] {
		if m.latch.Held(k, now) {
			return true
		}
	}
	return false
}

// frame shapes this frame's input from the held keys and takes a snapshot.
func (m *Model) frame(now time.Time) {
	dt := 1.0 / frameRate
	if !m.lastTick.IsZero() {
		dt = math.Min(now.Sub(m.lastTick).Seconds(), m.params.MaxDt)
	}
	m.lastTick = now

	held := cockpit.Held{
		Gas:    m.held("gas", now),
		Brake:  m.held("brake", now),
		Clutch: m.held("clutch", now),
		Left:   m.held("left", now),
		Right:  m.held("right", now),
	}
	m.input = m.shaper.Shape(m.input, held, cockpit.Analog{}, m.snap.SpeedKmh, dt)
	m.manual.SetInput(m.input)

	m.snap = m.live.Snapshot()
	m.rpmHist = append(m.rpmHist, m.snap.RPM)
	if len(m.rpmHist) > historyCapacity {
		m.rpmHist = m.rpmHist[len(m.rpmHist)-historyCapacity:]
	}
}

func (m Model) View() string {
	st, th := m.snap, m.theme
	cues := feedback.For(st)

	mapView := panelStyle.Render(m.minimap.Draw(st).Render(th))

	var s strings.Builder
	gear := gearStyle.BorderForeground(th.Primary).Foreground(th.Text).Render(st.Gear.String())
	status := lipgloss.NewStyle().Foreground(th.Success).Render("RUNNING")
	switch {
	case st.Stalled:
		status = alertStyle.Foreground(th.Redline).Render("STALLED")
	case !st.EngineOn:
		status = lipgloss.NewStyle().Foreground(th.Muted).Render("ENGINE OFF")
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, gear, "  ", status) + "\n\n")

	tach := feedback.GaugeAngle(st.RPM, m.params.Engine.MaxRPM)
	speedo := feedback.GaugeAngle(math.Abs(st.SpeedKmh), 200)
	s.WriteString(rowf("RPM", "%s %5.0f", Needle(tach), st.RPM))
	s.WriteString(labelStyle.Render("") + RevBar(st.RPM, m.params.Engine.RedlineRPM, m.params.Engine.MaxRPM, 24, th) + "\n")
	s.WriteString(rowf("Speed", "%s %5.1f km/h", Needle(speedo), st.SpeedKmh))
	s.WriteString(rowf("Odo", "%.0f m", st.DistanceTraveled))
	s.WriteString(rowf("Time", "%.1fs", m.live.Elapsed().Seconds()))
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("Clutch") + PedalBar(st.ClutchPedal, 16, th.Warning) + "\n")
	s.WriteString(labelStyle.Render("Brake") + PedalBar(st.BrakePedal, 16, th.Redline) + "\n")
	s.WriteString(labelStyle.Render("Gas") + PedalBar(st.GasPedal, 16, th.Success) + "\n")
	s.WriteString(rowf("Steer", "%+.2f", st.SteeringInput))
	s.WriteString("\n")

	var flags []string
	if cues.BrakeLight {
		flags = append(flags, lipgloss.NewStyle().Foreground(th.Redline).Render("BRAKE"))
	}
	if cues.Squeal.Active {
		flags = append(flags, lipgloss.NewStyle().Foreground(th.Warning).Render(fmt.Sprintf("SQUEAL %.0fHz", cues.Squeal.Pitch)))
	}
	if cues.Smoke {
		flags = append(flags, lipgloss.NewStyle().Foreground(th.Muted).Render("SMOKE"))
	}
	if cues.Engine.Volume > 0 {
		flags = append(flags, lipgloss.NewStyle().Foreground(th.Muted).Render(fmt.Sprintf("%.0fHz", cues.Engine.Freq)))
	}
	s.WriteString(strings.Join(flags, " ") + "\n")

	if len(m.rpmHist) > 1 {
		chart := asciigraph.Plot(m.rpmHist,
			asciigraph.Height(5),
			asciigraph.Width(32),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(m.params.Engine.MaxRPM),
			asciigraph.Caption("rpm"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	dash := panelStyle.Render(s.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapView, dash)

	help := "W gas  S brake  SPACE clutch  A/D steer  ↑/↓ shift  I ignition  Q quit  ? help"
	if m.showHelp {
		help = strings.Join([]string{
			"W        gas              1-5 R N  select gear",
			"S        brake            ↑ / ↓    sequential shift",
			"SPACE/C  clutch           I        ignition",
			"A/D ←/→  steer            + / -    zoom map",
			"T        theme            Q        quit",
		}, "\n")
	}
	return body + "\n" + helpStyle.Render(help)
}

// Snapshot is the last frame the model drew.
func (m Model) Snapshot() vehicle.State { return m.snap }
