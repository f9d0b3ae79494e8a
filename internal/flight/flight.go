package flight

import (
	"context"
	"fmt"
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// Flight is one launch. It owns its state exclusively and is not safe for
// concurrent use; run independent flights on separate goroutines instead.
type Flight struct {
	model      *physics.Model
	integrator dynamo.Integrator
	cfg        Config

	x       dynamo.State
	t       float64
	phase   physics.Phase
	active  bool
	steps   int
	samples int
	err     error

	history   []Snapshot
	metrics   []Metric
	observers []Observer
}

func New(params physics.Params, integrator dynamo.Integrator, cfg Config) (*Flight, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if integrator == nil {
		return nil, fmt.Errorf("integrator is required")
	}

	f := &Flight{
		model:      physics.NewModel(params),
		integrator: integrator,
		cfg:        cfg,
	}
	f.Reset()
	return f, nil
}

func (f *Flight) AddMetric(m Metric) {
	m.Reset()
	m.Observe(f.Snapshot())
	f.metrics = append(f.metrics, m)
}

func (f *Flight) AddObserver(o Observer) { f.observers = append(f.observers, o) }

// Reset puts the rocket back on the pad with the same parameters.
func (f *Flight) Reset() {
	f.x = f.model.InitialState()
	f.t = 0
	f.phase = physics.LaunchTube
	f.active = true
	f.steps = 0
	f.samples = 0
	f.err = nil

	s := f.Snapshot()
	f.history = []Snapshot{s}
	for _, m := range f.metrics {
		m.Reset()
		m.Observe(s)
	}
}

// Advance takes one step of Config.Dt and reports whether the rocket is
// still flying. It is a no-op after landing or after an invalid step.
func (f *Flight) Advance() bool {
	if !f.active {
		return false
	}

	next := f.integrator.Step(f.model, f.x, f.t, f.cfg.Dt)
	if !next.IsValid() {
		f.err = &dynamo.SimulationError{
			Step:    f.steps + 1,
			Time:    f.t + f.cfg.Dt,
			State:   next,
			Wrapped: dynamo.ErrInvalidState,
		}
		f.active = false
		return false
	}

	next[physics.IdxWater] = math.Max(0, next[physics.IdxWater])
	if next[physics.IdxWater] < physics.FlowCutoff {
		next[physics.IdxWater] = 0
	}
	next[physics.IdxAir] = math.Max(0, next[physics.IdxAir])

	f.steps++
	f.t = float64(f.steps) * f.cfg.Dt

	if p := f.model.Classify(next); p > f.phase {
		f.phase = p
	}

	if next[physics.IdxVY] < 0 && next[physics.IdxY] <= 0 {
		next[physics.IdxY] = 0
		next[physics.IdxVX] = 0
		next[physics.IdxVY] = 0
		f.phase = physics.Ballistic
		f.active = false
	}
	f.x = next

	s := f.Snapshot()
	for _, m := range f.metrics {
		m.Observe(s)
	}
	for _, o := range f.observers {
		o.OnStep(s)
	}
	f.record(s)

	return f.active
}

// AdvanceN calls Advance up to n times and returns how many steps were taken.
func (f *Flight) AdvanceN(n int) int {
	taken := 0
	for taken < n && f.active {
		f.Advance()
		taken++
	}
	return taken
}

func (f *Flight) record(s Snapshot) {
	due := float64(f.samples+1) * f.cfg.SampleInterval
	switch {
	case !s.Active:
	case f.t >= due-f.cfg.Dt*1e-6:
		f.samples = int(math.Floor(f.t/f.cfg.SampleInterval + 1e-6))
	default:
		return
	}

	f.history = append(f.history, s)
	if lim := f.cfg.HistoryLimit; lim > 0 && len(f.history) > lim {
		n := copy(f.history, f.history[len(f.history)-lim:])
		f.history = f.history[:n]
	}
}

// Run steps until landing. It fails with ErrInvalidState or
// ErrDurationExceeded wrapped in a SimulationError, or with the context's
// error. The partial result is returned in every case.
func (f *Flight) Run(ctx context.Context) (*Result, error) {
	for f.active {
		select {
		case <-ctx.Done():
			return f.result(), ctx.Err()
		default:
		}

		if f.t >= f.cfg.MaxDuration {
			return f.result(), &dynamo.SimulationError{
				Step:    f.steps,
				Time:    f.t,
				State:   f.x.Clone(),
				Wrapped: dynamo.ErrDurationExceeded,
			}
		}

		f.Advance()
	}

	if f.err != nil {
		return f.result(), f.err
	}
	return f.result(), nil
}

func (f *Flight) result() *Result {
	return &Result{
		History: f.History(),
		Final:   f.Snapshot(),
		Steps:   f.steps,
		Metrics: f.Metrics(),
		Landed:  !f.active && f.err == nil,
	}
}

// Metrics returns the current value of every attached metric.
func (f *Flight) Metrics() map[string]float64 {
	out := make(map[string]float64, len(f.metrics))
	for _, m := range f.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (f *Flight) Snapshot() Snapshot {
	return Snapshot{
		Time:      f.t,
		Position:  physics.Vec{X: f.x[physics.IdxX], Y: f.x[physics.IdxY]},
		Velocity:  physics.Vec{X: f.x[physics.IdxVX], Y: f.x[physics.IdxVY]},
		WaterMass: f.x[physics.IdxWater],
		AirMass:   f.x[physics.IdxAir],
		Pressure:  f.model.Pressure(f.x[physics.IdxWater], f.x[physics.IdxAir]),
		Phase:     f.phase,
		Active:    f.active,
	}
}

// History returns a copy of the recorded samples.
func (f *Flight) History() []Snapshot {
	out := make([]Snapshot, len(f.history))
	copy(out, f.history)
	return out
}

// Forces evaluates the model at the current state, for display.
func (f *Flight) Forces() physics.Forces { return f.model.Forces(f.x) }

func (f *Flight) Params() physics.Params { return f.model.Params() }
func (f *Flight) Config() Config         { return f.cfg }
func (f *Flight) Steps() int             { return f.steps }
func (f *Flight) Time() float64          { return f.t }
func (f *Flight) Active() bool           { return f.active }

// Err is the error that stopped the flight early, if any.
func (f *Flight) Err() error { return f.err }
