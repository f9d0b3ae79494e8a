package metrics

import (
	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

// BurnoutTime is the first time the water is gone.
type BurnoutTime struct {
	name string
	t    float64
	done bool
}

func NewBurnoutTime() *BurnoutTime {
	return &BurnoutTime{name: "burnout_time"}
}

func (b *BurnoutTime) Name() string { return b.name }

func (b *BurnoutTime) Observe(s flight.Snapshot) {
	if !b.done && s.WaterMass == 0 {
		b.t = s.Time
		b.done = true
	}
}

func (b *BurnoutTime) Value() float64 { return b.t }

func (b *BurnoutTime) Reset() {
	b.t = 0
	b.done = false
}

// TubeExitSpeed is the speed at the first snapshot clear of the launch tube.
// It stays zero if the rocket never leaves the tube.
type TubeExitSpeed struct {
	name       string
	tubeLength float64
	speed      float64
	done       bool
}

func NewTubeExitSpeed(tubeLength float64) *TubeExitSpeed {
	return &TubeExitSpeed{name: "tube_exit_speed", tubeLength: tubeLength}
}

func (e *TubeExitSpeed) Name() string { return e.name }

func (e *TubeExitSpeed) Observe(s flight.Snapshot) {
	if e.done || !s.Active || s.Time == 0 {
		return
	}
	if s.Position.Y >= e.tubeLength {
		e.speed = s.Speed()
		e.done = true
	}
}

func (e *TubeExitSpeed) Value() float64 { return e.speed }

func (e *TubeExitSpeed) Reset() {
	e.speed = 0
	e.done = false
}

// ExpelledWater is the water mass that has left the nozzle so far, in kg.
type ExpelledWater struct {
	name    string
	initial float64
	current float64
	seen    bool
}

func NewExpelledWater() *ExpelledWater {
	return &ExpelledWater{name: "expelled_water"}
}

func (w *ExpelledWater) Name() string { return w.name }

func (w *ExpelledWater) Observe(s flight.Snapshot) {
	if !w.seen {
		w.initial = s.WaterMass
		w.seen = true
	}
	w.current = s.WaterMass
}

func (w *ExpelledWater) Value() float64 { return w.initial - w.current }

func (w *ExpelledWater) Reset() {
	w.initial, w.current = 0, 0
	w.seen = false
}
