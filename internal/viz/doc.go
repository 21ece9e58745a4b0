// Package viz is the terminal viewer for live rounds.
//
// [Model] drives a [sim.Simulation] from real time on a Bubble Tea tick and
// draws the playfield on a braille [Canvas]: atoms as circles coloured by
// variant, gravity wells as filled discs, neutrons as single dots. The side
// panel shows the round clock, clicks left, chain, pending and banked currency
// and a chain history chart.
//
// # Key Bindings
//
//	S     - Start a round
//	Space - Pause/Resume (paused time does not count against the round)
//	R     - Reset the field
//	C     - Click the densest cluster
//	T     - Cycle colour themes
//	G     - Toggle GIF recording (written to fission.gif)
//	?     - Show help overlay
//
// A left mouse click fires at the playfield point under the cursor.
package viz
