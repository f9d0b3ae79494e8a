package physics

import (
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
)

// criticalPressureRatio is p*/p0 at which nozzle flow chokes.
var criticalPressureRatio = math.Pow(2/(AdiabaticIndex+1), AdiabaticIndex/(AdiabaticIndex-1))

// Forces holds the intermediate quantities of one model evaluation.
type Forces struct {
	Pressure     float64 // Pa, absolute chamber pressure
	ExitVelocity float64 // m/s, relative to the rocket
	WaterFlow    float64 // kg/s, dm_w/dt (<= 0)
	AirFlow      float64 // kg/s, dm_air/dt (<= 0)
	Thrust       Vec     // N
	Drag         Vec     // N
	Mass         float64 // kg, accelerated mass
	Acceleration Vec     // m/s^2, gravity included
}

// Model is the water rocket right-hand side. It holds only values derived
// from Params and is safe to share.
type Model struct {
	p          Params
	airMass0   float64
	airVolume0 float64
	areaFactor float64
}

func NewModel(p Params) *Model {
	ab2 := p.BottleArea * p.BottleArea
	return &Model{
		p:          p,
		airMass0:   p.InitialAirMass(),
		airVolume0: p.InitialAirVolume(),
		areaFactor: ab2 / (ab2 - p.NozzleArea*p.NozzleArea),
	}
}

func (m *Model) Params() Params { return m.p }

func (m *Model) StateDim() int { return StateDim }

// InitialState is the rocket at rest on the pad with a full load.
func (m *Model) InitialState() dynamo.State {
	x := make(dynamo.State, StateDim)
	x[IdxWater] = m.p.InitialWaterMass()
	x[IdxAir] = m.airMass0
	return x
}

// Pressure is the absolute chamber pressure for the given water and gas
// inventory. While no gas has left it reduces to P_i (V_air0/V_air)^gamma.
func (m *Model) Pressure(water, air float64) float64 {
	vAir := m.p.BottleVolume - water/WaterDensity
	if vAir <= 0 {
		return AtmosphericPressure
	}
	ratio := 1.0
	if m.airMass0 > 0 {
		ratio = math.Max(air, 0) / m.airMass0
	}
	return m.p.InitialPressure * math.Pow(ratio*m.airVolume0/vAir, AdiabaticIndex)
}

// WaterExitVelocity solves the unsteady Bernoulli balance across the nozzle,
// including the falling water column above it.
func (m *Model) WaterExitVelocity(pressure, water float64) float64 {
	k := m.areaFactor
	head := (water / WaterDensity) / m.p.BottleArea
	radicand := 2*k*(pressure-AtmosphericPressure)/WaterDensity + 2*Gravity*k*head
	return math.Sqrt(math.Max(0, radicand))
}

// ventGas returns exit velocity, mass flow and exit pressure of gas leaving
// through the nozzle, choked or subsonic.
func (m *Model) ventGas(pressure, water, air float64) (ue, mdot, pe float64) {
	if air <= 0 || pressure <= AtmosphericPressure+VentTolerance {
		return 0, 0, AtmosphericPressure
	}
	vAir := m.p.BottleVolume - water/WaterDensity
	if vAir <= 0 {
		return 0, 0, AtmosphericPressure
	}
	g := AdiabaticIndex
	rho := air / vAir
	pe = math.Max(AtmosphericPressure, pressure*criticalPressureRatio)
	ue = math.Sqrt(math.Max(0, 2*g/(g-1)*pressure/rho*(1-math.Pow(pe/pressure, (g-1)/g))))
	mdot = m.p.NozzleArea * rho * math.Pow(pe/pressure, 1/g) * ue
	return ue, mdot, pe
}

func (m *Model) thrustDirection(v Vec) Vec {
	if !m.p.Planar() {
		return Vec{0, 1}
	}
	if u := v.Unit(); u != (Vec{}) {
		return u
	}
	return Vec{math.Cos(m.p.LaunchAngle), math.Sin(m.p.LaunchAngle)}
}

func (m *Model) drag(v Vec) Vec {
	speed := v.Norm()
	mag := 0.5 * AirDensity * speed * speed * m.p.DragCoeff * m.p.RefArea
	if m.p.Planar() {
		return v.Unit().Scale(-mag)
	}
	return Vec{0, -sign(v.Y) * mag}
}

// Forces evaluates the model at x without modifying it.
func (m *Model) Forces(x dynamo.State) Forces {
	water, air := x[IdxWater], x[IdxAir]
	vel := Vec{x[IdxVX], x[IdxVY]}

	f := Forces{Mass: m.p.DryMass}
	f.Pressure = m.Pressure(water, air)

	thrust := 0.0
	if water > FlowCutoff {
		f.ExitVelocity = m.WaterExitVelocity(f.Pressure, water)
		f.WaterFlow = -WaterDensity * m.p.NozzleArea * f.ExitVelocity
		thrust = -f.WaterFlow * f.ExitVelocity
		f.Mass += water
	} else {
		ue, mdot, pe := m.ventGas(f.Pressure, water, air)
		f.ExitVelocity = ue
		f.AirFlow = -mdot
		if m.p.AirModel == AirBlowdown {
			thrust = mdot*ue + (pe-AtmosphericPressure)*m.p.NozzleArea
		}
	}

	f.Thrust = m.thrustDirection(vel).Scale(thrust)
	f.Drag = m.drag(vel)

	acc := f.Thrust.Add(f.Drag).Scale(1 / f.Mass)
	acc.Y -= Gravity
	f.Acceleration = acc
	return f
}

func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	f := m.Forces(x)
	dx := make(dynamo.State, StateDim)
	dx[IdxX] = x[IdxVX]
	dx[IdxY] = x[IdxVY]
	dx[IdxVX] = f.Acceleration.X
	dx[IdxVY] = f.Acceleration.Y
	dx[IdxWater] = f.WaterFlow
	dx[IdxAir] = f.AirFlow
	return dx
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
