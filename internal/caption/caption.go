package caption

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ivlev/scenetime/internal/timeline"
)

// ErrInvalidInterval is returned for intervals with start >= end or
// non-finite bounds.
var ErrInvalidInterval = errors.New("invalid caption interval")

// Interval is one caption, active on the half-open range [Start, End) seconds.
type Interval struct {
	Text  string  `json:"text" yaml:"text"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Contains reports whether sec falls inside the interval.
func (iv Interval) Contains(sec float64) bool {
	return sec >= iv.Start && sec < iv.End
}

// Validate reports configuration errors.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Start) || math.IsNaN(iv.End) || math.IsInf(iv.Start, 0) || math.IsInf(iv.End, 0) {
		return fmt.Errorf("%w: %q has non-finite bounds", ErrInvalidInterval, iv.Text)
	}
	if iv.Start >= iv.End {
		return fmt.Errorf("%w: %q starts at %.2fs but ends at %.2fs", ErrInvalidInterval, iv.Text, iv.Start, iv.End)
	}
	return nil
}

// SelectActive returns the first interval in list order containing sec.
// ok is false when no caption is showing, which is a normal state.
func SelectActive(sec float64, intervals []Interval) (Interval, bool) {
	for _, iv := range intervals {
		if iv.Contains(sec) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Track is a validated, immutable caption list.
type Track struct {
	intervals []Interval
	ordered   bool // sorted by start with no overlaps
}

// NewTrack validates intervals and returns a Track. The slice is copied.
func NewTrack(intervals []Interval) (*Track, error) {
	t := &Track{intervals: append([]Interval(nil), intervals...)}
	for i, iv := range t.intervals {
		if err := iv.Validate(); err != nil {
			return nil, fmt.Errorf("caption %d: %w", i+1, err)
		}
	}

	t.ordered = true
	for i := 1; i < len(t.intervals); i++ {
		if t.intervals[i].Start < t.intervals[i-1].End {
			t.ordered = false
			break
		}
	}
	return t, nil
}

// Len returns the number of captions.
func (t *Track) Len() int {
	return len(t.intervals)
}

// Intervals returns a copy of the captions in declaration order.
func (t *Track) Intervals() []Interval {
	return append([]Interval(nil), t.intervals...)
}

// Select returns the caption showing at sec. On ordered tracks this is a
// binary search; otherwise the first match in declaration order wins.
func (t *Track) Select(sec float64) (Interval, bool) {
	if !t.ordered {
		return SelectActive(sec, t.intervals)
	}

	// first interval ending after sec
	i := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].End > sec
	})
	if i < len(t.intervals) && t.intervals[i].Contains(sec) {
		return t.intervals[i], true
	}
	return Interval{}, false
}

// SelectFrame returns the caption showing at frame for the given fps.
func (t *Track) SelectFrame(frame int, fps float64) (Interval, bool) {
	return t.Select(timeline.FramesToSeconds(frame, fps))
}

// Overlaps returns the index pairs of captions that overlap in time. Overlap
// is resolved by list order at selection time; the pairs are meant for review.
func (t *Track) Overlaps() [][2]int {
	if t.ordered {
		return nil
	}
	var pairs [][2]int
	for i := 0; i < len(t.intervals); i++ {
		for j := i + 1; j < len(t.intervals); j++ {
			a, b := t.intervals[i], t.intervals[j]
			if a.Start < b.End && b.Start < a.End {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// End returns the latest caption end time, or 0 for an empty track.
func (t *Track) End() float64 {
	end := 0.0
	for _, iv := range t.intervals {
		end = math.Max(end, iv.End)
	}
	return end
}

// DurationFrames converts a scene duration to a frame count, rounding down
// and adding the closing frame.
func DurationFrames(seconds, fps float64) int {
	return int(seconds*fps) + 1
}
