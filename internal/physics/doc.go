// Package physics models a pressurized water rocket.
//
// It holds the two leaf components of the engine:
//
//   - [ToSI]: converts a [UserParams] set (psi, liters, grams, cm², degrees)
//     into SI [Params]. [Params.Validate] rejects non-physical configurations.
//   - [Model]: the force/derivative model. It implements [dynamo.System] over
//     the state vector [x, y, vx, vy, water, air] and classifies flight
//     phases with [Model.Classify].
//
// # Forces
//
// While water remains, chamber pressure follows adiabatic expansion of the
// trapped gas and the water leaves at the unsteady-Bernoulli exit velocity.
// Afterwards the gas vents through the nozzle. With [AirNone] the venting
// only drives the Air Thrust label; [AirBlowdown] turns it into thrust.
//
//	model := physics.NewModel(physics.ToSI(physics.DefaultUserParams()))
//	dx := model.Derive(model.InitialState(), 0)
package physics
