package easing

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/ease"
)

// ErrInvalidEasing is returned for unknown names and unusable parameters.
var ErrInvalidEasing = errors.New("invalid easing")

// Kind identifies an easing curve.
type Kind string

const (
	Linear     Kind = "linear"
	CubicIn    Kind = "cubic-in"
	CubicOut   Kind = "cubic-out"
	CubicInOut Kind = "cubic-in-out"
	BackOut    Kind = "back-out"
	Bezier     Kind = "bezier"
	QuadIn     Kind = "quad-in"
	QuadOut    Kind = "quad-out"
	QuadInOut  Kind = "quad-in-out"
	SineInOut  Kind = "sine-in-out"
)

// DefaultOvershoot is the back-out overshoot used when none is given.
const DefaultOvershoot = 1.70158

// Easing maps linear progress t in [0,1] to eased progress.
// The zero value is linear.
type Easing struct {
	Kind Kind

	// back-out
	Overshoot float64

	// bezier control points
	P1X, P1Y, P2X, P2Y float64
}

var standard = map[Kind]func(float64) float64{
	Linear:     ease.Linear,
	CubicIn:    ease.InCubic,
	CubicOut:   ease.OutCubic,
	CubicInOut: ease.InOutCubic,
	QuadIn:     ease.InQuad,
	QuadOut:    ease.OutQuad,
	QuadInOut:  ease.InOutQuad,
	SineInOut:  ease.InOutSine,
}

// New returns a parameterless easing of the given kind.
func New(kind Kind) (Easing, error) {
	e := Easing{Kind: kind}
	if kind == BackOut {
		e.Overshoot = DefaultOvershoot
	}
	return e, e.Validate()
}

// NewBackOut returns a back-out easing overshooting by the given factor.
func NewBackOut(overshoot float64) (Easing, error) {
	e := Easing{Kind: BackOut, Overshoot: overshoot}
	return e, e.Validate()
}

// NewBezier returns a cubic-bezier easing with control points (x1,y1) and
// (x2,y2), matching CSS cubic-bezier().
func NewBezier(x1, y1, x2, y2 float64) (Easing, error) {
	e := Easing{Kind: Bezier, P1X: x1, P1Y: y1, P2X: x2, P2Y: y2}
	return e, e.Validate()
}

// MustNew is like New but panics on error. Intended for package-level presets.
func MustNew(kind Kind) Easing {
	e, err := New(kind)
	if err != nil {
		panic(err)
	}
	return e
}

// Validate reports whether the easing can be evaluated.
func (e Easing) Validate() error {
	switch e.kind() {
	case BackOut:
		if !finite(e.Overshoot) || e.Overshoot < 0 {
			return fmt.Errorf("%w: back-out overshoot %v", ErrInvalidEasing, e.Overshoot)
		}
	case Bezier:
		for _, v := range []float64{e.P1X, e.P1Y, e.P2X, e.P2Y} {
			if !finite(v) {
				return fmt.Errorf("%w: bezier control point %v", ErrInvalidEasing, v)
			}
		}
		// x must stay monotone for the curve to be a function of t
		if e.P1X < 0 || e.P1X > 1 || e.P2X < 0 || e.P2X > 1 {
			return fmt.Errorf("%w: bezier x control points must be in [0,1], got %v and %v",
				ErrInvalidEasing, e.P1X, e.P2X)
		}
	default:
		if _, ok := standard[e.kind()]; !ok {
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidEasing, e.Kind)
		}
	}
	return nil
}

// Apply evaluates the curve at t. Values outside [0,1] are clamped first.
func (e Easing) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	switch e.kind() {
	case BackOut:
		return backOut(e.Overshoot, t)
	case Bezier:
		return cubicBezier(e.P1X, e.P1Y, e.P2X, e.P2Y, t)
	}
	if fn, ok := standard[e.kind()]; ok {
		return fn(t)
	}
	return t
}

func (e Easing) kind() Kind {
	if e.Kind == "" {
		return Linear
	}
	return e.Kind
}

// backOut is out(back(s)): 1 - u²((s+1)u - s) with u = 1-t.
func backOut(s, t float64) float64 {
	u := 1 - t
	return 1 - u*u*((s+1)*u-s)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
