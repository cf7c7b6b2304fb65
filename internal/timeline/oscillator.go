package timeline

import (
	"fmt"
	"math"
)

// Oscillator is a sine wave locked to the absolute frame number.
// It never clamps: every frame, negative ones included, has a value.
type Oscillator struct {
	Cycle int     // Period in frames, > 0
	Min   float64 // Trough value
	Max   float64 // Crest value
	Phase int     // Frame at which a cycle starts
}

// NewOscillator validates and returns an Oscillator with zero phase.
func NewOscillator(cycle int, min, max float64) (Oscillator, error) {
	o := Oscillator{Cycle: cycle, Min: min, Max: max}
	return o, o.Validate()
}

// Validate reports configuration errors.
func (o Oscillator) Validate() error {
	if o.Cycle <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCycle, o.Cycle)
	}
	if !Finite(o.Min) || !Finite(o.Max) {
		return fmt.Errorf("%w: oscillator range %v..%v", ErrNonFinite, o.Min, o.Max)
	}
	return nil
}

// Value returns the oscillator value at frame. Cycle must have been validated.
func (o Oscillator) Value(frame int) float64 {
	pos := (frame - o.Phase) % o.Cycle
	if pos < 0 {
		pos += o.Cycle
	}
	progress := float64(pos) / float64(o.Cycle)
	wave := math.Sin(2 * math.Pi * progress)
	return o.Min + (o.Max-o.Min)*(wave+1)/2
}

// Oscillate is the one-shot form of Oscillator.Value.
func Oscillate(frame, cycle int, min, max float64) (float64, error) {
	o, err := NewOscillator(cycle, min, max)
	if err != nil {
		return 0, err
	}
	return o.Value(frame), nil
}
