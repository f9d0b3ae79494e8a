package metrics

import (
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

type MaxAltitude struct {
	name string
	max  float64
}

func NewMaxAltitude() *MaxAltitude {
	return &MaxAltitude{name: "max_altitude"}
}

func (m *MaxAltitude) Name() string { return m.name }

func (m *MaxAltitude) Observe(s flight.Snapshot) {
	m.max = math.Max(m.max, s.Position.Y)
}

func (m *MaxAltitude) Value() float64 { return m.max }

func (m *MaxAltitude) Reset() { m.max = 0 }

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s flight.Snapshot) {
	m.max = math.Max(m.max, s.Speed())
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Range is the horizontal distance from the pad at the latest snapshot.
type Range struct {
	name string
	x    float64
}

func NewRange() *Range {
	return &Range{name: "range"}
}

func (r *Range) Name() string { return r.name }

func (r *Range) Observe(s flight.Snapshot) { r.x = math.Abs(s.Position.X) }

func (r *Range) Value() float64 { return r.x }

func (r *Range) Reset() { r.x = 0 }

// FlightTime is the time of landing, or the latest time while still flying.
type FlightTime struct {
	name string
	t    float64
}

func NewFlightTime() *FlightTime {
	return &FlightTime{name: "flight_time"}
}

func (f *FlightTime) Name() string { return f.name }

func (f *FlightTime) Observe(s flight.Snapshot) { f.t = s.Time }

func (f *FlightTime) Value() float64 { return f.t }

func (f *FlightTime) Reset() { f.t = 0 }
