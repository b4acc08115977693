package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/impact/internal/sim"
)

var trackColors = []string{"#46b4ff", "#ff8c46", "#9cff46", "#ff46d2"}

// TrajectorySVG renders position-vs-time tracks for every particle
// index that appears in the frames. The merged particle continues the
// index-0 track.
func TrajectorySVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 || len(frames[0].Particles) == 0 {
		return ""
	}

	maxIdx := 0
	minT, maxT := frames[0].Time, frames[len(frames)-1].Time
	minX, maxX := frames[0].Particles[0].Position, frames[0].Particles[0].Position
	for _, f := range frames {
		if len(f.Particles) > maxIdx {
			maxIdx = len(f.Particles)
		}
		for _, p := range f.Particles {
			if p.Position < minX {
				minX = p.Position
			}
			if p.Position > maxX {
				maxX = p.Position
			}
		}
	}

	rangeT := maxT - minT
	rangeX := maxX - minX
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeX == 0 {
		rangeX = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	rangeX = maxX - minX

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for idx := 0; idx < maxIdx; idx++ {
		color := trackColors[idx%len(trackColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))

		started := false
		for _, f := range frames {
			if idx >= len(f.Particles) {
				continue
			}
			x := (f.Time - minT) / rangeT * float64(width)
			y := float64(height) - (f.Particles[idx].Position-minX)/rangeX*float64(height)
			if !started {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				started = true
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}

		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
