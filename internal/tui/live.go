package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/experiment"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

const (
	frameRate    = 30
	canvasWidth  = 60
	canvasHeight = 20
	adjustStep   = 0.05
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live launch view. Each tick advances the flight by
// StepsPerFrame steps; tuning a parameter relaunches with the new set.
type Model struct {
	cfg      *config.Config
	flight   *flight.Flight
	keys     []string
	selected int
	running  bool
	theme    int
	st       styles
	canvas   *Canvas
	notice   string
}

func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:     cfg.Clone(),
		keys:    physics.ParamNames(),
		running: true,
		st:      newStyles(themes[0]),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	f, err := experiment.New(m.cfg).Build()
	if err != nil {
		return m, err
	}
	m.flight = f
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.flight.Reset()
			m.running = true
			m.notice = ""
		case "tab":
			m.selected = (m.selected + 1) % len(m.keys)
		case "shift+tab":
			m.selected = (m.selected + len(m.keys) - 1) % len(m.keys)
		case "up", "k":
			m.adjust(1 + adjustStep)
		case "down", "j":
			m.adjust(1 - adjustStep)
		case "t":
			m.theme = (m.theme + 1) % len(themes)
			m.st = newStyles(themes[m.theme])
		}
	case TickMsg:
		if m.running {
			m.flight.AdvanceN(m.cfg.StepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

// adjust scales the selected parameter and relaunches. A rejected value
// leaves the current flight untouched.
func (m *Model) adjust(factor float64) {
	key := m.keys[m.selected]
	val := m.cfg.Rocket.GetParams()[key]
	next := val * factor
	if val == 0 && factor > 1 {
		next = 1
	}

	cfg := m.cfg.Clone()
	if err := cfg.Rocket.SetParam(key, next); err != nil {
		m.notice = err.Error()
		return
	}
	f, err := experiment.New(cfg).Build()
	if err != nil {
		m.notice = err.Error()
		return
	}

	m.cfg, m.flight = cfg, f
	m.running = true
	m.notice = ""
}

// Flight exposes the running flight, mainly for tests.
func (m Model) Flight() *flight.Flight { return m.flight }

func (m Model) View() string {
	s := m.flight.Snapshot()
	history := m.flight.History()
	stats := m.flight.Metrics()

	var b strings.Builder
	title := "WATER ROCKET"
	if m.cfg.Name != "" {
		title += " · " + m.cfg.Name
	}
	b.WriteString(m.st.header.Render(title) + "\n")
	b.WriteString(m.status(s) + "\n\n")

	alt := make([]float64, 0, len(history)+1)
	for _, h := range history {
		alt = append(alt, h.Position.Y)
	}
	if s.Active {
		alt = append(alt, s.Position.Y)
	}
	if len(alt) > 1 {
		chart := asciigraph.Plot(alt, asciigraph.Height(6), asciigraph.Width(36), asciigraph.Caption("altitude (m)"))
		b.WriteString(m.st.graph.Render(chart) + "\n")
	}

	water := 0.0
	if w0 := m.flight.Params().InitialWaterMass(); w0 > 0 {
		water = s.WaterMass / w0 * 100
	}
	forces := m.flight.Forces()
	rows := [][2]string{
		{"Phase", s.Phase.String()},
		{"Time", fmt.Sprintf("%.2f s", s.Time)},
		{"Height", fmt.Sprintf("%.2f m", s.Position.Y)},
		{"Range", fmt.Sprintf("%.2f m", s.Position.X)},
		{"Speed", fmt.Sprintf("%.1f km/h", s.Speed()*3.6)},
		{"Water left", fmt.Sprintf("%.0f %%", water)},
		{"Pressure", fmt.Sprintf("%.1f psi", (s.Pressure-physics.AtmosphericPressure)/physics.PascalPerPSI)},
		{"Thrust", fmt.Sprintf("%.1f N", forces.Thrust.Norm())},
		{"Apex", fmt.Sprintf("%.2f m", stats["max_altitude"])},
		{"Max speed", fmt.Sprintf("%.1f km/h", stats["max_speed"]*3.6)},
	}
	for _, r := range rows {
		b.WriteString(m.st.label.Render(r[0]) + m.st.value.Render(r[1]) + "\n")
	}

	b.WriteString("\nPARAMETERS\n")
	params := m.cfg.Rocket.GetParams()
	for i, k := range m.keys {
		line := fmt.Sprintf("%-17s %8.2f", k, params[k])
		if i == m.selected {
			b.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + m.st.label.Render(line) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(m.st.errText.Render(m.notice) + "\n")
	}
	b.WriteString(m.st.help.Render("SPACE pause  R relaunch  TAB select  ↑↓ ±5%  T theme  Q quit"))

	m.drawTrack(history, s)
	canvasView := m.st.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.stats.Render(b.String()))
}

func (m Model) status(s flight.Snapshot) string {
	switch {
	case m.flight.Err() != nil:
		return m.st.errText.Render("ERROR " + m.flight.Err().Error())
	case !s.Active:
		return m.st.landed.Render(fmt.Sprintf("LANDED after %.2f s", s.Time))
	case !m.running:
		return m.st.paused.Render("PAUSED")
	default:
		return "FLYING"
	}
}

// drawTrack plots height against range, or against time for vertical runs.
func (m Model) drawTrack(history []flight.Snapshot, cur flight.Snapshot) {
	m.canvas.Clear()
	planar := m.flight.Params().Planar()

	pts := make([][2]float64, 0, len(history)+1)
	maxA, maxB := 1.0, 1.0
	add := func(s flight.Snapshot) {
		a := s.Time
		if planar {
			a = s.Position.X
		}
		pts = append(pts, [2]float64{a, s.Position.Y})
		maxA = math.Max(maxA, a)
		maxB = math.Max(maxB, s.Position.Y)
	}
	for _, h := range history {
		add(h)
	}
	if cur.Active {
		add(cur)
	}
	m.canvas.Plot(pts, maxA*1.1, maxB*1.1)
}
