package metrics

import (
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// SpecificEnergy is kinetic plus potential energy per kilogram.
func SpecificEnergy(s flight.Snapshot) float64 {
	v := s.Speed()
	return 0.5*v*v + physics.Gravity*s.Position.Y
}

// PeakEnergy tracks the largest specific mechanical energy reached, which is
// the energy the propellant delivered net of losses up to that point.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (e *PeakEnergy) Name() string { return e.name }

func (e *PeakEnergy) Observe(s flight.Snapshot) {
	e.peak = math.Max(e.peak, SpecificEnergy(s))
}

func (e *PeakEnergy) Value() float64 { return e.peak }

func (e *PeakEnergy) Reset() { e.peak = 0 }
