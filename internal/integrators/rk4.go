package integrators

import "github.com/globalpizza/Reto-Cohete/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. Every stage is a
// fresh state, so the system sees no aliased buffers between evaluations.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := dt * 0.5

	k1 := dyn.Derive(x, t)
	k2 := dyn.Derive(x.AddScaled(k1, half), t+half)
	k3 := dyn.Derive(x.AddScaled(k2, half), t+half)
	k4 := dyn.Derive(x.AddScaled(k3, dt), t+dt)

	n := len(x)
	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
