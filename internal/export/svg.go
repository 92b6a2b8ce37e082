package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/heatslab/internal/storage"
)

// Series is one labelled line of a chart.
type Series struct {
	Label string
	X, Y  []float64
}

var palette = []string{"#00d7ff", "#ff5f87", "#afff00", "#ffaf00", "#d787ff", "#5fffaf"}

// ProfilesToSVG draws every scheme of one stored profile.
func ProfilesToSVG(p storage.Profile, width, height int) string {
	series := make([]Series, 0, len(p.Order))
	for _, name := range p.Order {
		if y, ok := p.Values[name]; ok {
			series = append(series, Series{Label: name, X: p.Positions, Y: y})
		}
	}
	title := fmt.Sprintf("t = %g h, dt = %g h", p.TEnd, p.Dt)
	return SeriesToSVG(title, series, width, height)
}

// SeriesToSVG renders line series on a shared, padded scale. Non-finite
// points break the line instead of stretching the axes.
func SeriesToSVG(title string, series []Series, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.Y[i]) {
				continue
			}
			minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
			minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
`, width, height, width, height, escape(title)))

	for k, s := range series {
		color := palette[k%len(palette)]
		var d strings.Builder
		pen := false
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.Y[i]) {
				pen = false
				continue
			}
			x := (s.X[i] - minX) / rangeX * float64(width)
			y := float64(height) - (s.Y[i]-minY)/rangeY*float64(height)
			if pen {
				d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			} else {
				if d.Len() > 0 {
					d.WriteString(" ")
				}
				d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				pen = true
			}
		}
		if d.Len() > 0 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, color, d.String()))
		}
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="11">%s</text>
`, 34+14*k, color, escape(s.Label)))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
