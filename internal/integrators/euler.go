package integrators

import "github.com/globalpizza/Reto-Cohete/internal/dynamo"

// Euler is the explicit first-order method. Cheap, and useful as a
// comparison baseline for step-size studies.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	return x.AddScaled(dyn.Derive(x, t), dt)
}
