package camera

import (
	"errors"
	"fmt"

	"github.com/ivlev/scenetime/internal/easing"
	"github.com/ivlev/scenetime/internal/timeline"
)

// ErrInvalidMove is returned for moves that cannot be evaluated.
var ErrInvalidMove = errors.New("invalid camera move")

// DefaultEasing is applied to moves that do not name one.
var DefaultEasing = easing.MustNew(easing.CubicInOut)

// State represents the camera zoom and pan at a specific frame
type State struct {
	Scale float64 `json:"scale" yaml:"scale"` // Uniform zoom (1.0 = no zoom)
	X     float64 `json:"x" yaml:"x"`         // Horizontal translation in pixels
	Y     float64 `json:"y" yaml:"y"`         // Vertical translation in pixels
}

// Identity is the unzoomed, untranslated camera.
var Identity = State{Scale: 1}

// Move is one camera motion. Any nil endpoint defaults to the running camera
// value at the moment the move is folded in.
type Move struct {
	Start     int           `yaml:"start"`
	Duration  int           `yaml:"duration"`
	FromScale *float64      `yaml:"from_scale,omitempty"`
	ToScale   *float64      `yaml:"to_scale,omitempty"`
	FromX     *float64      `yaml:"from_x,omitempty"`
	ToX       *float64      `yaml:"to_x,omitempty"`
	FromY     *float64      `yaml:"from_y,omitempty"`
	ToY       *float64      `yaml:"to_y,omitempty"`
	Easing    easing.Easing `yaml:"easing,omitempty"`
}

// Validate reports configuration errors.
func (m Move) Validate() error {
	if m.Duration < 0 {
		return fmt.Errorf("%w: move at frame %d: %w", ErrInvalidMove, m.Start, timeline.ErrNegativeDuration)
	}
	if err := m.Easing.Validate(); err != nil {
		return fmt.Errorf("%w: move at frame %d: %w", ErrInvalidMove, m.Start, err)
	}
	for _, p := range []*float64{m.FromScale, m.ToScale, m.FromX, m.ToX, m.FromY, m.ToY} {
		if p != nil && !timeline.Finite(*p) {
			return fmt.Errorf("%w: move at frame %d: %w", ErrInvalidMove, m.Start, timeline.ErrNonFinite)
		}
	}
	return nil
}

// Validate rejects states that cannot seed a fold.
func (s State) Validate() error {
	if !timeline.Finite(s.Scale) || !timeline.Finite(s.X) || !timeline.Finite(s.Y) {
		return fmt.Errorf("camera state %+v: %w", s, timeline.ErrNonFinite)
	}
	return nil
}

func (m Move) window(from, to float64) timeline.Window {
	e := m.Easing
	if e.Kind == "" {
		e = DefaultEasing
	}
	return timeline.Window{Start: m.Start, Duration: m.Duration, From: from, To: to, Easing: e}
}

// Compose folds moves in declaration order into the camera state at frame.
// Moves that have not started are skipped entirely. A started move overwrites
// scale when its scale endpoints differ, and overwrites x and y together when
// either pan axis changes; other axes keep the running value. Later moves
// therefore win wherever started moves overlap.
func Compose(frame int, initial State, moves []Move) State {
	cur := initial

	for i := range moves {
		m := &moves[i]
		if frame < m.Start {
			continue
		}

		fromScale, toScale := or(m.FromScale, cur.Scale), or(m.ToScale, cur.Scale)
		fromX, toX := or(m.FromX, cur.X), or(m.ToX, cur.X)
		fromY, toY := or(m.FromY, cur.Y), or(m.ToY, cur.Y)

		if fromScale != toScale {
			cur.Scale = timeline.Interpolate(frame, m.window(fromScale, toScale))
		}
		if fromX != toX || fromY != toY {
			cur.X = timeline.Interpolate(frame, m.window(fromX, toX))
			cur.Y = timeline.Interpolate(frame, m.window(fromY, toY))
		}
	}

	return cur
}

// Overlaps returns index pairs of moves whose frame ranges intersect.
// Overlap is legal; the pairs are reported for authoring review.
func Overlaps(moves []Move) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(moves); i++ {
		for j := i + 1; j < len(moves); j++ {
			a, b := moves[i], moves[j]
			if a.Start < b.Start+b.Duration && b.Start < a.Start+a.Duration {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Float returns a pointer to v, for building moves in code.
func Float(v float64) *float64 {
	return &v
}

func or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
