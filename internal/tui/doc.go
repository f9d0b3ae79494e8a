// Package tui is the Bubble Tea live launch view: a Braille trajectory
// canvas, a stats panel and an altitude trace, with keys to pause, relaunch
// and tune the rocket between launches.
package tui
