// Package viz renders temperature profiles in the terminal.
//
// [PlotProfile] and [PlotProfiles] draw static asciigraph charts. [Model] is a
// Bubble Tea program that marches a scheme one time level per tick and
// redraws the profile as the wall heats up.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from t = 0
//	+/-   - More/fewer levels per tick
//	[/]   - Step back/forward through recorded levels
//	Q     - Quit
package viz
