package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
	"github.com/globalpizza/Reto-Cohete/internal/experiment"
	"github.com/globalpizza/Reto-Cohete/internal/metrics"
)

// Point is one evaluated grid cell. Feasible is false when the rocket
// parameters were rejected; Value is then meaningless.
type Point struct {
	Params   map[string]float64 `json:"params"`
	Value    float64            `json:"value"`
	Feasible bool               `json:"feasible"`
}

type Outcome struct {
	Best   Point   `json:"best"`
	Points []Point `json:"points"`
}

// GridSearch evaluates every combination of the given rocket parameter
// values (user units, named as in physics.ParamNames).
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, maximize: true}
}

// Minimize makes Search look for the smallest metric value instead.
func (g *GridSearch) Minimize() *GridSearch {
	g.maximize = false
	return g
}

// Steps returns from, from+step, ... up to and including to.
func Steps(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return []float64{from}
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Outcome, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if !slices.Contains(metrics.Names(), metricName) {
		return nil, fmt.Errorf("unknown metric %q (have %s)", metricName, strings.Join(metrics.Names(), ", "))
	}

	var cells []map[string]float64
	g.collect(0, make(map[string]float64), &cells)

	points := make([]Point, len(cells))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, cell := range cells {
		eg.Go(func() error {
			points[i].Params = cell

			cfg := base.Clone()
			for name, v := range cell {
				if err := cfg.Rocket.SetParam(name, v); err != nil {
					return err
				}
			}

			res, err := experiment.New(cfg).Run(ctx)
			switch {
			case errors.Is(err, dynamo.ErrParameterBounds):
				return nil
			case err != nil:
				return fmt.Errorf("%v: %w", cell, err)
			}
			v, ok := res.Metrics[metricName]
			if !ok {
				return fmt.Errorf("unknown metric: %s", metricName)
			}
			points[i].Value = v
			points[i].Feasible = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Points: points}
	found := false
	for _, p := range points {
		if !p.Feasible {
			continue
		}
		if !found || g.better(p.Value, out.Best.Value) {
			out.Best = p
			found = true
		}
	}
	if !found {
		return out, fmt.Errorf("no feasible parameter combination")
	}
	return out, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val
		g.collect(depth+1, next, out)
	}
}
