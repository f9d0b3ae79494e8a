// Package flight runs one water rocket launch from the pad to impact.
//
// A [Flight] owns the state vector and steps it with a [dynamo.Integrator]
// over a [physics.Model]. After each step it clamps the propellant
// inventories, moves the phase forward (never back), checks for landing and
// records history. Callers either drive it frame by frame with
// [Flight.Advance] and [Flight.AdvanceN] or let [Flight.Run] go to landing.
package flight
