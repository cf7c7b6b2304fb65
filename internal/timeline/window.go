package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/scenetime/internal/easing"
)

var (
	ErrNegativeDuration = errors.New("negative duration")
	ErrInvalidCycle     = errors.New("cycle length must be positive")
	ErrInvalidStops     = errors.New("invalid keyframe stops")
	ErrInvalidColor     = errors.New("invalid color")
	ErrNonFinite        = errors.New("value is NaN or infinite")
)

// Window describes how one value changes over a bounded frame range.
// Outside the range the value is clamped to From or To. Start may be
// negative, for scenes that open part-way through a change.
type Window struct {
	Start    int           // First frame of the change
	Duration int           // Length in frames; 0 makes a step at Start
	From     float64       // Value held up to Start
	To       float64       // Value held from Start+Duration on
	Easing   easing.Easing // Reparameterisation of linear progress
}

// NewWindow validates and returns a Window.
func NewWindow(start, duration int, from, to float64, e easing.Easing) (Window, error) {
	w := Window{Start: start, Duration: duration, From: from, To: to, Easing: e}
	return w, w.Validate()
}

// Validate reports configuration errors.
func (w Window) Validate() error {
	if w.Duration < 0 {
		return fmt.Errorf("%w: window at frame %d has duration %d", ErrNegativeDuration, w.Start, w.Duration)
	}
	if !Finite(w.From) || !Finite(w.To) {
		return fmt.Errorf("%w: window at frame %d goes from %v to %v", ErrNonFinite, w.Start, w.From, w.To)
	}
	if err := w.Easing.Validate(); err != nil {
		return fmt.Errorf("window at frame %d: %w", w.Start, err)
	}
	return nil
}

// End returns the first frame at which the window holds To.
func (w Window) End() int {
	return w.Start + w.Duration
}

// Progress returns the eased progress of frame within the window, in the
// easing's output range (0 before, 1 after).
func (w Window) Progress(frame int) float64 {
	if frame >= w.End() {
		return 1
	}
	if frame <= w.Start {
		return 0
	}
	t := float64(frame-w.Start) / float64(w.Duration)
	return w.Easing.Apply(t)
}

// Interpolate returns the value of w at frame.
func Interpolate(frame int, w Window) float64 {
	if frame >= w.End() {
		return w.To
	}
	if frame <= w.Start {
		return w.From
	}
	return lerp(w.From, w.To, w.Progress(frame))
}

// InterpolateVec interpolates several axes with one shared progress value.
// dst must be at least as long as from and to.
func InterpolateVec(dst []float64, frame int, w Window, from, to []float64) []float64 {
	p := w.Progress(frame)
	for i := range from {
		switch {
		case frame >= w.End():
			dst[i] = to[i]
		case frame <= w.Start:
			dst[i] = from[i]
		default:
			dst[i] = lerp(from[i], to[i], p)
		}
	}
	return dst[:len(from)]
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
