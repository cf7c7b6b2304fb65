package caption

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// WriteSRT writes the track as a SubRip file. Captions are numbered in
// declaration order.
func WriteSRT(w io.Writer, t *Track) error {
	bw := bufio.NewWriter(w)
	for i, iv := range t.intervals {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, FormatSRTTime(iv.Start), FormatSRTTime(iv.End), iv.Text)
	}
	return bw.Flush()
}

// FormatSRTTime formats seconds as HH:MM:SS,mmm. Milliseconds are truncated.
func FormatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	// round to microseconds first so 1.58 does not print as 1,579
	total := int64(math.Round(seconds*1e6)) / 1000
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s%3600)/60, s%60, ms)
}
