// Package analysis post-processes flights.
//
//   - [Timeline]: a [flight.Observer] that records when each phase starts
//     and ends, at step resolution, and locates the apex by interpolating
//     the vertical-velocity sign change.
//   - [RocketEquation]: compares the simulated water phase with the
//     Tsiolkovsky estimate for a constant exhaust velocity.
//   - [Portrait]: 2D point sets drawn from a sampled history (trajectory,
//     altitude/velocity phase plane) with a plain-text renderer.
//
//	f, _ := experiment.New(cfg).Build()
//	tl := analysis.Attach(f)
//	f.Run(ctx)
//	for _, s := range tl.Spans() { ... }
package analysis
