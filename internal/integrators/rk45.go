package integrators

import (
	"fmt"
	"math"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
)

// Dormand-Prince tableau.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince 5(4) pair. Step takes the fifth-order solution
// at the caller's dt so it can drive a fixed-step flight; StepAdaptive also
// returns the step size the embedded error estimate suggests next.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	tol      float64
}

var _ dynamo.AdaptiveIntegrator = (*RK45)(nil)

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		tol:      1e-6,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	newX, _, _ := r.StepAdaptive(dyn, x, t, dt, r.tol)
	return newX
}

// StepAdaptive advances by dt and proposes the next step size for the given
// relative tolerance. A non-finite result is returned with ErrInvalidState.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if tol <= 0 {
		return nil, dt, fmt.Errorf("rk45: tolerance must be positive, got %g", tol)
	}

	k1 := dyn.Derive(x, t)
	k2 := dyn.Derive(combine(x, dt, []float64{b21}, k1), t+a2*dt)
	k3 := dyn.Derive(combine(x, dt, []float64{b31, b32}, k1, k2), t+a3*dt)
	k4 := dyn.Derive(combine(x, dt, []float64{b41, b42, b43}, k1, k2, k3), t+a4*dt)
	k5 := dyn.Derive(combine(x, dt, []float64{b51, b52, b53, b54}, k1, k2, k3, k4), t+a5*dt)
	k6 := dyn.Derive(combine(x, dt, []float64{b61, b62, b63, b64, b65}, k1, k2, k3, k4, k5), t+dt)

	xNew := combine(x, dt, []float64{c1, 0, c3, c4, c5, c6}, k1, k2, k3, k4, k5, k6)
	if !xNew.IsValid() {
		return xNew, dt, dynamo.ErrInvalidState
	}

	// FSAL: the seventh stage is the derivative at the accepted point.
	k7 := dyn.Derive(xNew, t+dt)

	errMax := 0.0
	for i := range x {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, r.nextStep(dt, errMax/tol), nil
}

func (r *RK45) nextStep(dt, errRatio float64) float64 {
	switch {
	case errRatio > 1:
		return dt * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		return dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		return dt * r.maxScale
	}
}

// combine returns x + dt*sum(coef[i]*k[i]).
func combine(x dynamo.State, dt float64, coef []float64, k ...dynamo.State) dynamo.State {
	out := x.Clone()
	for j, c := range coef {
		if c == 0 {
			continue
		}
		for i := range out {
			out[i] += dt * c * k[j][i]
		}
	}
	return out
}
