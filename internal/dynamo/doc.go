// Package dynamo provides core simulation primitives for the rocket engine.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepping strategy
//   - [Configurable]: named parameter access for interactive tuning
//
// # Example
//
//	model := physics.NewModel(params)
//	integ := integrators.NewRK4()
//	x = integ.Step(model, x, t, dt)
//
// # Thread Safety
//
// Nothing in this package holds mutable state. Integrators are pure
// functions of their inputs and may be shared between goroutines.
package dynamo
