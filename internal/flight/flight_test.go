package flight_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/integrators"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// nanIntegrator poisons the state on its first step.
type nanIntegrator struct{}

func (nanIntegrator) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	out := x.Clone()
	out[physics.IdxVY] = math.NaN()
	return out
}

type countMetric struct{ n int }

func (c *countMetric) Name() string            { return "count" }
func (c *countMetric) Observe(flight.Snapshot) { c.n++ }
func (c *countMetric) Value() float64          { return float64(c.n) }
func (c *countMetric) Reset()                  { c.n = 0 }

func paramsWith(mutate func(u *physics.UserParams)) physics.Params {
	u := physics.DefaultUserParams()
	if mutate != nil {
		mutate(&u)
	}
	return physics.ToSI(u)
}

func newFlight(p physics.Params) *flight.Flight {
	f, err := flight.New(p, integrators.NewRK4(), flight.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return f
}

// trace runs f to landing and returns every per-step snapshot, the initial
// one included.
func trace(f *flight.Flight) []flight.Snapshot {
	steps := []flight.Snapshot{f.Snapshot()}
	f.AddObserver(flight.ObserverFunc(func(s flight.Snapshot) {
		steps = append(steps, s)
	}))
	_, err := f.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return steps
}

func apex(steps []flight.Snapshot) flight.Snapshot {
	best := steps[0]
	for _, s := range steps {
		if s.Position.Y > best.Position.Y {
			best = s
		}
	}
	return best
}

var _ = Describe("Flight", func() {
	Describe("construction", func() {
		It("rejects parameters out of bounds", func() {
			p := paramsWith(func(u *physics.UserParams) { u.WaterVolumeL = 3 })
			_, err := flight.New(p, integrators.NewRK4(), flight.DefaultConfig())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects a non-positive step", func() {
			cfg := flight.DefaultConfig()
			cfg.Dt = 0
			_, err := flight.New(paramsWith(nil), integrators.NewRK4(), cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative history limit", func() {
			cfg := flight.DefaultConfig()
			cfg.HistoryLimit = -1
			_, err := flight.New(paramsWith(nil), integrators.NewRK4(), cfg)
			Expect(err).To(HaveOccurred())
		})

		It("requires an integrator", func() {
			_, err := flight.New(paramsWith(nil), nil, flight.DefaultConfig())
			Expect(err).To(HaveOccurred())
		})

		It("starts on the pad with a full load", func() {
			p := paramsWith(nil)
			f := newFlight(p)
			s := f.Snapshot()

			Expect(s.Time).To(BeZero())
			Expect(s.Position).To(Equal(physics.Vec{}))
			Expect(s.Velocity).To(Equal(physics.Vec{}))
			Expect(s.WaterMass).To(BeNumerically("~", p.InitialWaterMass(), 1e-12))
			Expect(s.AirMass).To(BeNumerically("~", p.InitialAirMass(), 1e-12))
			Expect(s.Pressure).To(BeNumerically("~", p.InitialPressure, 1e-6))
			Expect(s.Phase).To(Equal(physics.LaunchTube))
			Expect(s.Active).To(BeTrue())
			Expect(f.History()).To(HaveLen(1))
		})
	})

	Describe("the default launch", func() {
		var (
			p     physics.Params
			steps []flight.Snapshot
		)

		BeforeEach(func() {
			p = paramsWith(nil)
			steps = trace(newFlight(p))
		})

		It("goes from the tube to a ballistic landing", func() {
			Expect(steps[0].Phase).To(Equal(physics.LaunchTube))
			last := steps[len(steps)-1]
			Expect(last.Phase).To(Equal(physics.Ballistic))
			Expect(last.Active).To(BeFalse())
		})

		It("reaches an apex in the tens of meters", func() {
			Expect(apex(steps).Position.Y).To(BeNumerically(">", 10))
			Expect(apex(steps).Position.Y).To(BeNumerically("<", 60))
		})

		It("exhausts the water before the apex", func() {
			top := apex(steps)
			Expect(top.WaterMass).To(BeZero())
			for _, s := range steps {
				if s.WaterMass == 0 {
					Expect(s.Time).To(BeNumerically("<", top.Time))
					break
				}
			}
		})

		It("never gains water and never goes negative", func() {
			for i := 1; i < len(steps); i++ {
				Expect(steps[i].WaterMass).To(BeNumerically("<=", steps[i-1].WaterMass))
				Expect(steps[i].WaterMass).To(BeNumerically(">=", 0))
			}
			Expect(steps[len(steps)-1].WaterMass).To(BeNumerically("<=", p.InitialWaterMass()))
		})

		It("never gains gas and never goes negative", func() {
			for i := 1; i < len(steps); i++ {
				Expect(steps[i].AirMass).To(BeNumerically(">=", 0))
				Expect(steps[i].AirMass).To(BeNumerically("<=", steps[i-1].AirMass))
			}
		})

		It("moves through the phases in order", func() {
			for i := 1; i < len(steps); i++ {
				Expect(steps[i].Phase).To(BeNumerically(">=", steps[i-1].Phase))
			}
		})

		It("terminates exactly once, while descending", func() {
			for i, s := range steps[:len(steps)-1] {
				Expect(s.Active).To(BeTrue(), "step %d", i)
			}
			prev := steps[len(steps)-2]
			last := steps[len(steps)-1]
			Expect(prev.Velocity.Y).To(BeNumerically("<", 0))
			Expect(last.Position.Y).To(BeZero())
			Expect(last.Velocity).To(Equal(physics.Vec{}))
		})

		It("stays vertical", func() {
			for _, s := range steps {
				Expect(s.Position.X).To(BeZero())
				Expect(s.Velocity.X).To(BeZero())
			}
		})

		It("loses mechanical energy once unpowered", func() {
			energy := func(s flight.Snapshot) float64 {
				return 0.5*s.Speed()*s.Speed() + physics.Gravity*s.Position.Y
			}
			for i := 1; i < len(steps)-1; i++ {
				if steps[i-1].Phase != physics.Ballistic {
					continue
				}
				Expect(energy(steps[i])).To(BeNumerically("<=", energy(steps[i-1])+1e-9))
			}
		})
	})

	It("is deterministic", func() {
		run := func() []flight.Snapshot {
			f := newFlight(paramsWith(nil))
			res, err := f.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			return res.History
		}
		Expect(run()).To(Equal(run()))
	})

	It("drops straight back with no water", func() {
		f := newFlight(paramsWith(func(u *physics.UserParams) { u.WaterVolumeL = 0 }))

		Expect(f.Advance()).To(BeFalse())
		Expect(f.Steps()).To(Equal(1))

		h := f.History()
		Expect(h).To(HaveLen(2))
		Expect(h[0].Phase).To(Equal(physics.LaunchTube))
		Expect(h[1].Phase).To(Equal(physics.Ballistic))
		Expect(h[1].Position.Y).To(BeZero())
	})

	It("passes through water thrust when the tube is short", func() {
		steps := trace(newFlight(paramsWith(func(u *physics.UserParams) { u.TubeLengthM = 0.2 })))
		seen := map[physics.Phase]bool{}
		for _, s := range steps {
			seen[s.Phase] = true
		}
		Expect(seen).To(HaveKey(physics.WaterThrust))
		Expect(seen).To(HaveKey(physics.AirThrust))
	})

	It("follows projectile motion without drag", func() {
		steps := trace(newFlight(paramsWith(func(u *physics.UserParams) { u.DragCoeff = 0 })))
		dt := flight.DefaultConfig().Dt

		var start *flight.Snapshot
		checked := 0
		for i := 1; i < len(steps)-1; i++ {
			prev, cur := steps[i-1], steps[i]
			if prev.Phase != physics.Ballistic {
				continue
			}
			if start == nil {
				start = &steps[i-1]
			}
			Expect(cur.Velocity.Y - prev.Velocity.Y).To(BeNumerically("~", -physics.Gravity*dt, 1e-9))

			tau := cur.Time - start.Time
			want := start.Position.Y + start.Velocity.Y*tau - 0.5*physics.Gravity*tau*tau
			Expect(cur.Position.Y).To(BeNumerically("~", want, 1e-6))
			checked++
		}
		Expect(checked).To(BeNumerically(">", 100))
	})

	It("keeps horizontal and vertical motion independent without drag", func() {
		steps := trace(newFlight(paramsWith(func(u *physics.UserParams) {
			u.LaunchAngleDeg = 45
			u.DragCoeff = 0
		})))
		dt := flight.DefaultConfig().Dt

		checked := 0
		for i := 1; i < len(steps)-1; i++ {
			prev, cur := steps[i-1], steps[i]
			if prev.Phase != physics.Ballistic {
				continue
			}
			Expect(cur.Velocity.Y - prev.Velocity.Y).To(BeNumerically("~", -physics.Gravity*dt, 1e-9))
			Expect(cur.Velocity.X).To(BeNumerically("~", prev.Velocity.X, 1e-12))
			Expect(cur.Position.X - prev.Position.X).To(BeNumerically("~", prev.Velocity.X*dt, 1e-9))
			checked++
		}
		Expect(checked).To(BeNumerically(">", 100))
		Expect(steps[len(steps)-2].Velocity.X).To(BeNumerically(">", 0))
	})

	It("flies downrange at an angle", func() {
		steps := trace(newFlight(paramsWith(func(u *physics.UserParams) { u.LaunchAngleDeg = 45 })))
		for i := 1; i < len(steps); i++ {
			Expect(steps[i].Position.X).To(BeNumerically(">=", steps[i-1].Position.X))
		}
		Expect(steps[len(steps)-1].Position.X).To(BeNumerically(">", 5))
	})

	It("flies higher when the residual gas pushes", func() {
		none := apex(trace(newFlight(paramsWith(nil)))).Position.Y
		p := paramsWith(nil)
		p.AirModel = physics.AirBlowdown
		blow := apex(trace(newFlight(p))).Position.Y
		Expect(blow).To(BeNumerically(">", none))
	})

	DescribeTable("lands with every integrator",
		func(integ dynamo.Integrator) {
			f, err := flight.New(paramsWith(nil), integ, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			res, err := f.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Landed).To(BeTrue())
			Expect(res.Final.Phase).To(Equal(physics.Ballistic))
		},
		Entry("euler", integrators.NewEuler()),
		Entry("rk4", integrators.NewRK4()),
		Entry("rk45", integrators.NewRK45()),
	)

	Describe("stepping", func() {
		It("takes the requested number of steps", func() {
			f := newFlight(paramsWith(nil))
			Expect(f.AdvanceN(10)).To(Equal(10))
			Expect(f.Steps()).To(Equal(10))
			Expect(f.Time()).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("does nothing after landing", func() {
			f := newFlight(paramsWith(nil))
			_, err := f.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			n := f.Steps()
			before := f.Snapshot()
			Expect(f.Advance()).To(BeFalse())
			Expect(f.AdvanceN(5)).To(BeZero())
			Expect(f.Steps()).To(Equal(n))
			Expect(f.Snapshot()).To(Equal(before))
		})

		It("starts over on reset", func() {
			f := newFlight(paramsWith(nil))
			f.AdvanceN(100)
			f.Reset()

			Expect(f.Steps()).To(BeZero())
			Expect(f.Active()).To(BeTrue())
			Expect(f.History()).To(HaveLen(1))
			Expect(f.Snapshot().Phase).To(Equal(physics.LaunchTube))
		})
	})

	Describe("history", func() {
		It("samples at the configured interval and keeps the landing", func() {
			f := newFlight(paramsWith(nil))
			res, err := f.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			h := res.History
			Expect(h[0].Time).To(BeZero())
			for i := 1; i < len(h)-1; i++ {
				Expect(h[i].Time).To(BeNumerically("~", float64(i)*0.1, 1e-9))
			}
			Expect(h[len(h)-1]).To(Equal(res.Final))
			Expect(res.Final.Active).To(BeFalse())
		})

		It("drops the oldest samples past the limit", func() {
			cfg := flight.DefaultConfig()
			cfg.HistoryLimit = 5
			f, err := flight.New(paramsWith(nil), integrators.NewRK4(), cfg)
			Expect(err).NotTo(HaveOccurred())

			res, err := f.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.History).To(HaveLen(5))
			Expect(res.History[4]).To(Equal(res.Final))
			Expect(res.History[0].Time).To(BeNumerically(">", 0))
		})

		It("returns a copy", func() {
			f := newFlight(paramsWith(nil))
			h := f.History()
			h[0].Time = 42
			Expect(f.History()[0].Time).To(BeZero())
		})
	})

	Describe("failures", func() {
		It("stops at the duration limit", func() {
			cfg := flight.DefaultConfig()
			cfg.MaxDuration = 0.5
			f, err := flight.New(paramsWith(nil), integrators.NewRK4(), cfg)
			Expect(err).NotTo(HaveOccurred())

			res, err := f.Run(context.Background())
			Expect(errors.Is(err, dynamo.ErrDurationExceeded)).To(BeTrue())
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Time).To(BeNumerically(">=", 0.5))
			Expect(res.Landed).To(BeFalse())
		})

		It("reports a non-finite state", func() {
			f, err := flight.New(paramsWith(nil), nanIntegrator{}, flight.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Advance()).To(BeFalse())
			Expect(errors.Is(f.Err(), dynamo.ErrInvalidState)).To(BeTrue())

			_, err = f.Run(context.Background())
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
			Expect(f.Snapshot().Velocity.Y).To(BeZero())
		})

		It("honours cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			f := newFlight(paramsWith(nil))
			_, err := f.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(f.Steps()).To(BeZero())
		})
	})

	It("feeds every snapshot to its metrics", func() {
		f := newFlight(paramsWith(nil))
		m := &countMetric{}
		f.AddMetric(m)

		res, err := f.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("count", float64(res.Steps+1)))
	})
})
