package experiment

import (
	"fmt"
	"sort"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/integrators"
	"github.com/globalpizza/Reto-Cohete/internal/metrics"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	airModels   map[string]physics.AirModel
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		airModels:   make(map[string]physics.AirModel),
	}

	r.RegisterIntegrator("euler", func() dynamo.Integrator { return integrators.NewEuler() })
	r.RegisterIntegrator("rk4", func() dynamo.Integrator { return integrators.NewRK4() })
	r.RegisterIntegrator("rk45", func() dynamo.Integrator { return integrators.NewRK45() })

	r.airModels[string(physics.AirNone)] = physics.AirNone
	r.airModels[string(physics.AirBlowdown)] = physics.AirBlowdown

	return r
}

func (r *Registry) RegisterIntegrator(name string, fn func() dynamo.Integrator) {
	r.integrators[name] = fn
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) GetAirModel(name string) (physics.AirModel, error) {
	if name == "" {
		return physics.AirNone, nil
	}
	am, ok := r.airModels[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", dynamo.ErrUnknownAirModel, name)
	}
	return am, nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListAirModels() []string {
	return sortedKeys(r.airModels)
}

func (r *Registry) DefaultMetrics(p physics.Params) []flight.Metric {
	return metrics.Default(p)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
