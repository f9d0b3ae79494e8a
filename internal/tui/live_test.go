package tui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/globalpizza/Reto-Cohete/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestTick_AdvancesStepsPerFrame(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))

	if got, want := m.Flight().Steps(), config.DefaultStepsPerFrame; got != want {
		t.Errorf("expected %d steps after one tick, got %d", want, got)
	}
}

func TestPause(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	m = send(m, TickMsg(time.Now()))

	if m.Flight().Steps() != 0 {
		t.Errorf("paused view should not step, got %d steps", m.Flight().Steps())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}
}

func TestRelaunch(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 10; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	m = send(m, key("r"))
	if m.Flight().Steps() != 0 {
		t.Errorf("expected a fresh flight, got %d steps", m.Flight().Steps())
	}
}

func TestAdjust_Relaunches(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))

	// Keys are sorted; bottle_area_cm2 comes first.
	m = send(m, key("tab"))
	if m.keys[m.selected] != "bottle_volume_l" {
		t.Fatalf("unexpected selection %s", m.keys[m.selected])
	}
	m = send(m, key("up"))

	if got := m.cfg.Rocket.BottleVolumeL; math.Abs(got-2.1) > 1e-12 {
		t.Errorf("expected bottle volume 2.1, got %f", got)
	}
	if m.Flight().Steps() != 0 {
		t.Error("adjusting a parameter should relaunch")
	}
	if v := m.Flight().Params().BottleVolume; math.Abs(v-0.0021) > 1e-15 {
		t.Errorf("flight not rebuilt with new params: %g", v)
	}
}

func TestAdjust_RejectsInvalid(t *testing.T) {
	m := newTestModel(t)
	for m.keys[m.selected] != "water_volume_l" {
		m = send(m, key("tab"))
	}
	m.cfg.Rocket.WaterVolumeL = 1.95
	before := m.Flight()

	m = send(m, key("up"))

	if m.Flight() != before {
		t.Error("invalid parameters should keep the current flight")
	}
	if m.cfg.Rocket.WaterVolumeL != 1.95 {
		t.Errorf("invalid value was applied: %f", m.cfg.Rocket.WaterVolumeL)
	}
	if m.notice == "" {
		t.Error("expected a notice explaining the rejection")
	}
}

func TestAdjust_ZeroAngle(t *testing.T) {
	m := newTestModel(t)
	for m.keys[m.selected] != "launch_angle_deg" {
		m = send(m, key("tab"))
	}
	m = send(m, key("up"))
	if m.cfg.Rocket.LaunchAngleDeg != 1 {
		t.Errorf("expected angle to leave zero, got %f", m.cfg.Rocket.LaunchAngleDeg)
	}
	if !m.Flight().Params().Planar() {
		t.Error("expected a planar flight")
	}
}

func TestView_Landed(t *testing.T) {
	m := newTestModel(t)
	m.Flight().AdvanceN(1 << 20)

	v := m.View()
	for _, want := range []string{"LANDED", "Ballistic", "Apex", "km/h", "altitude (m)"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCanvas_Plot(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Plot([][2]float64{{0, 0}, {1, 1}}, 1, 1)

	s := c.String()
	if strings.Count(s, "\n") != 2 {
		t.Fatalf("unexpected canvas shape %q", s)
	}
	rows := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	first := []rune(rows[len(rows)-1])[0]
	if first&0x40 == 0 {
		t.Errorf("bottom-left dot not set: %q", s)
	}

	c.Clear()
	if strings.Trim(c.String(), string(rune(blank))+"\n") != "" {
		t.Error("clear left dots behind")
	}
}
