package timeline

import (
	"math"

	"github.com/rivo/uniseg"
)

// Reveal returns how many of total units are visible at frame. The window's
// From and To are ignored: the count runs from 0 to total and is clamped to
// that range whatever the easing does.
func Reveal(frame int, w Window, total int) int {
	if total <= 0 {
		return 0
	}
	w.From, w.To = 0, float64(total)

	n := int(math.Floor(Interpolate(frame, w)))
	if n < 0 {
		return 0
	}
	if n > total {
		return total
	}
	return n
}

// RevealText returns the visible prefix of text at frame, counted in
// user-perceived characters (grapheme clusters).
func RevealText(frame int, w Window, text string) string {
	total := uniseg.GraphemeClusterCount(text)
	n := Reveal(frame, w, total)
	if n == total {
		return text
	}

	end := 0
	g := uniseg.NewGraphemes(text)
	for i := 0; i < n && g.Next(); i++ {
		_, end = g.Positions()
	}
	return text[:end]
}
