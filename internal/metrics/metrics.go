// Package metrics holds the flight statistics shown after and during a run.
// Each type implements flight.Metric.
package metrics

import (
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// Default is the standard statistic set for one flight.
func Default(p physics.Params) []flight.Metric {
	return []flight.Metric{
		NewMaxAltitude(),
		NewMaxSpeed(),
		NewRange(),
		NewFlightTime(),
		NewBurnoutTime(),
		NewTubeExitSpeed(p.TubeLength),
		NewExpelledWater(),
		NewPeakEnergy(),
	}
}

// Names lists the statistics Default produces, in display order.
func Names() []string {
	ms := Default(physics.Params{})
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
