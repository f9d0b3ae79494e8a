package analysis

import (
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// IdealExhaustVelocity is the water exit speed at the fill pressure with the
// water column ignored.
func IdealExhaustVelocity(p physics.Params) float64 {
	ab2 := p.BottleArea * p.BottleArea
	an2 := p.NozzleArea * p.NozzleArea
	term := 2 * ab2 * (p.InitialPressure - physics.AtmosphericPressure) / (physics.WaterDensity * (ab2 - an2))
	return math.Sqrt(math.Max(0, term))
}

// EquationPoint pairs the simulated speed with the rocket-equation estimate
// at one step.
type EquationPoint struct {
	Time      float64 `json:"time"`
	Simulated float64 `json:"simulated"`
	Estimate  float64 `json:"estimate"`
}

// RocketEquation compares the water phase with the Tsiolkovsky estimate for a
// constant exhaust velocity, constant mass flow and no gravity or drag:
//
//	v(t) = u_e ln((m_r + m_w0) / (m_r + m_w0 - ρ A_n u_e t))
//
// It records every step while water is aboard, plus the burnout step.
type RocketEquation struct {
	exhaust float64
	dry     float64
	water0  float64
	flow    float64
	points  []EquationPoint
	done    bool
}

func NewRocketEquation(p physics.Params) *RocketEquation {
	ue := IdealExhaustVelocity(p)
	return &RocketEquation{
		exhaust: ue,
		dry:     p.DryMass,
		water0:  p.InitialWaterMass(),
		flow:    physics.WaterDensity * p.NozzleArea * ue,
	}
}

// AttachRocketEquation seeds the comparison with the flight's current
// snapshot and registers it as an observer.
func AttachRocketEquation(f *flight.Flight) *RocketEquation {
	re := NewRocketEquation(f.Params())
	re.OnStep(f.Snapshot())
	f.AddObserver(re)
	return re
}

// Estimate is the rocket-equation speed t seconds after launch.
func (re *RocketEquation) Estimate(t float64) float64 {
	water := math.Max(re.water0-re.flow*t, 0)
	return re.exhaust * math.Log((re.dry+re.water0)/(re.dry+water))
}

func (re *RocketEquation) OnStep(s flight.Snapshot) {
	if re.done {
		return
	}
	re.points = append(re.points, EquationPoint{
		Time:      s.Time,
		Simulated: s.Speed(),
		Estimate:  re.Estimate(s.Time),
	})
	if s.WaterMass <= 0 {
		re.done = true
	}
}

func (re *RocketEquation) ExhaustVelocity() float64 { return re.exhaust }

func (re *RocketEquation) Points() []EquationPoint {
	out := make([]EquationPoint, len(re.points))
	copy(out, re.points)
	return out
}

// Burnout returns the last recorded point, the step the water ran out once
// the flight has got that far.
func (re *RocketEquation) Burnout() (EquationPoint, bool) {
	if len(re.points) == 0 {
		return EquationPoint{}, false
	}
	return re.points[len(re.points)-1], re.done
}

// RelativeError is (estimate - simulated) / simulated at burnout.
func (re *RocketEquation) RelativeError() float64 {
	b, ok := re.Burnout()
	if !ok || b.Simulated == 0 {
		return math.NaN()
	}
	return (b.Estimate - b.Simulated) / b.Simulated
}
