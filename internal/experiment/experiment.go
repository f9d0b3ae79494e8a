package experiment

import (
	"context"
	"fmt"

	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

// Experiment turns a run configuration into a flight with the standard
// metrics attached.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	flight   *flight.Flight
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg, registry: NewRegistry()}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Build validates the configuration and creates a fresh flight.
func (e *Experiment) Build() (*flight.Flight, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	p, err := e.cfg.Params()
	if err != nil {
		return nil, err
	}
	if p.AirModel, err = e.registry.GetAirModel(e.cfg.AirModel); err != nil {
		return nil, err
	}

	f, err := flight.New(p, integ, e.cfg.Flight())
	if err != nil {
		return nil, err
	}
	for _, m := range e.registry.DefaultMetrics(p) {
		f.AddMetric(m)
	}

	e.flight = f
	return f, nil
}

// Run builds the flight if needed and runs it to landing.
func (e *Experiment) Run(ctx context.Context) (*flight.Result, error) {
	if e.flight == nil {
		if _, err := e.Build(); err != nil {
			return nil, err
		}
	}
	return e.flight.Run(ctx)
}

// Flight returns the flight from the last Build, for adding observers.
func (e *Experiment) Flight() *flight.Flight {
	return e.flight
}
