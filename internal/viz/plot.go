package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Blue,
}

// PlotProfile draws a single temperature profile. Non-finite nodes are left
// as gaps; a profile with no finite node yields an empty string.
func PlotProfile(u []float64, caption string, width, height int) string {
	data := plottable(u)
	if data == nil {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotProfiles overlays several profiles, one colour per label.
func PlotProfiles(labels []string, profiles [][]float64, caption string, width, height int) string {
	data := make([][]float64, 0, len(profiles))
	legends := make([]string, 0, len(profiles))
	colors := make([]asciigraph.AnsiColor, 0, len(profiles))
	for i, u := range profiles {
		d := plottable(u)
		if d == nil {
			continue
		}
		data = append(data, d)
		legends = append(legends, labels[i])
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// plottable replaces infinities with NaN, which asciigraph skips.
func plottable(u []float64) []float64 {
	out := make([]float64, len(u))
	seen := false
	for i, v := range u {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
		seen = true
	}
	if !seen {
		return nil
	}
	return out
}
