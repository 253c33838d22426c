package layout

import (
	"strings"

	"github.com/youruser/coverapp/internal/fonts"
)

const ellipsis = "…"

// Measurer reports the advance width of a string in logical pixels.
type Measurer interface {
	Measure(st fonts.Style, s string) float64
}

// truncate shortens s with a trailing ellipsis until it fits maxW.
func truncate(m Measurer, st fonts.Style, s string, maxW float64) string {
	if m.Measure(st, s) <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cand := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if m.Measure(st, cand) <= maxW {
			return cand
		}
	}
	if m.Measure(st, ellipsis) <= maxW {
		return ellipsis
	}
	return ""
}

// wrap breaks s into lines no wider than maxW at word boundaries. A single
// word wider than maxW is truncated on its own line.
func wrap(m Measurer, st fonts.Style, s string, maxW float64) []string {
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		cand := w
		if cur != "" {
			cand = cur + " " + w
		}
		if m.Measure(st, cand) <= maxW {
			cur = cand
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = truncate(m, st, w, maxW)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

type box struct {
	w, h float64
}

// flow lays boxes out left to right with gap spacing, wrapping when a line
// would exceed maxW. Each line is centered vertically on its tallest box.
// With alignEnd set, lines hug the right edge of maxW. It returns one rect per
// box, relative to the flow origin, and the total height.
func flow(boxes []box, gap, maxW float64, alignEnd bool) ([]Rect, float64) {
	out := make([]Rect, len(boxes))
	var y float64
	start := 0
	for start < len(boxes) {
		end := start
		lineW, lineH := 0.0, 0.0
		for end < len(boxes) {
			w := boxes[end].w
			if end > start {
				w += gap
			}
			if end > start && lineW+w > maxW {
				break
			}
			lineW += w
			if boxes[end].h > lineH {
				lineH = boxes[end].h
			}
			end++
		}

		x := 0.0
		if alignEnd {
			x = maxW - lineW
		}
		for i := start; i < end; i++ {
			out[i] = Rect{X: x, Y: y + (lineH-boxes[i].h)/2, W: boxes[i].w, H: boxes[i].h}
			x += boxes[i].w + gap
		}
		y += lineH + gap
		start = end
	}
	if len(boxes) == 0 {
		return out, 0
	}
	return out, y - gap
}

func offset(r Rect, dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}
