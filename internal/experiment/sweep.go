package experiment

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

// Summary is the outcome of one flight in a sweep or comparison.
type Summary struct {
	Label      string             `json:"label"`
	Integrator string             `json:"integrator"`
	Angle      float64            `json:"launch_angle_deg"`
	Steps      int                `json:"steps"`
	Landed     bool               `json:"landed"`
	Metrics    map[string]float64 `json:"metrics"`
}

func summarize(label string, cfg *config.Config, res *flight.Result) Summary {
	return Summary{
		Label:      label,
		Integrator: cfg.Integrator,
		Angle:      cfg.Rocket.LaunchAngleDeg,
		Steps:      res.Steps,
		Landed:     res.Landed,
		Metrics:    res.Metrics,
	}
}

// runAll runs one flight per configuration concurrently and returns the
// summaries in input order. The first failure cancels the rest.
func runAll(ctx context.Context, labels []string, cfgs []*config.Config) ([]Summary, error) {
	out := make([]Summary, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := New(cfg).Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", labels[i], err)
			}
			out[i] = summarize(labels[i], cfg, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sweep flies the same rocket at each launch angle in degrees.
func Sweep(ctx context.Context, base *config.Config, angles []float64) ([]Summary, error) {
	return sweep(ctx, base, "launch_angle_deg", angles, "%g°")
}

// SweepParam flies the same rocket once per value of the named rocket
// parameter, in user units (see physics.ParamNames).
func SweepParam(ctx context.Context, base *config.Config, name string, values []float64) ([]Summary, error) {
	return sweep(ctx, base, name, values, "%g")
}

func sweep(ctx context.Context, base *config.Config, name string, values []float64, format string) ([]Summary, error) {
	labels := make([]string, len(values))
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Rocket.SetParam(name, v); err != nil {
			return nil, err
		}
		labels[i] = fmt.Sprintf(format, v)
		cfgs[i] = cfg
	}
	return runAll(ctx, labels, cfgs)
}

// Compare flies the same rocket under each named integrator.
func Compare(ctx context.Context, base *config.Config, names []string) ([]Summary, error) {
	reg := NewRegistry()
	cfgs := make([]*config.Config, len(names))
	for i, name := range names {
		if _, err := reg.GetIntegrator(name); err != nil {
			return nil, err
		}
		cfg := base.Clone()
		cfg.Integrator = name
		cfgs[i] = cfg
	}
	return runAll(ctx, names, cfgs)
}
