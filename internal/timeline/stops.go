package timeline

import (
	"fmt"
	"sort"

	"github.com/ivlev/scenetime/internal/easing"
)

// Stops is a piecewise keyframe track: Values[i] is reached at Frames[i] and
// each segment between neighbouring stops is eased independently. Frames
// before the first stop hold Values[0]; frames after the last hold the last value.
type Stops struct {
	Frames []int
	Values []float64
	Easing easing.Easing
}

// NewStops validates and returns a Stops track. The slices are copied.
func NewStops(frames []int, values []float64, e easing.Easing) (Stops, error) {
	s := Stops{
		Frames: append([]int(nil), frames...),
		Values: append([]float64(nil), values...),
		Easing: e,
	}
	return s, s.Validate()
}

// Validate reports configuration errors.
func (s Stops) Validate() error {
	if len(s.Frames) < 2 {
		return fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidStops, len(s.Frames))
	}
	if len(s.Frames) != len(s.Values) {
		return fmt.Errorf("%w: %d frames but %d values", ErrInvalidStops, len(s.Frames), len(s.Values))
	}
	for i, v := range s.Values {
		if !Finite(v) {
			return fmt.Errorf("%w: stop %d at frame %d is %v", ErrNonFinite, i, s.Frames[i], v)
		}
	}
	for i := 1; i < len(s.Frames); i++ {
		if s.Frames[i] <= s.Frames[i-1] {
			return fmt.Errorf("%w: frames must increase strictly, got %d after %d",
				ErrInvalidStops, s.Frames[i], s.Frames[i-1])
		}
	}
	if err := s.Easing.Validate(); err != nil {
		return fmt.Errorf("stops: %w", err)
	}
	return nil
}

// Value returns the track value at frame.
func (s Stops) Value(frame int) float64 {
	last := len(s.Frames) - 1
	if frame <= s.Frames[0] {
		return s.Values[0]
	}
	if frame >= s.Frames[last] {
		return s.Values[last]
	}

	// first stop strictly after frame; frame lies in segment [i-1, i)
	i := sort.SearchInts(s.Frames, frame+1)
	w := Window{
		Start:    s.Frames[i-1],
		Duration: s.Frames[i] - s.Frames[i-1],
		From:     s.Values[i-1],
		To:       s.Values[i],
		Easing:   s.Easing,
	}
	return Interpolate(frame, w)
}
