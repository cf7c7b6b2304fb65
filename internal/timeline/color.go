package timeline

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/scenetime/internal/easing"
)

// ColorWindow fades between two colours over a frame window.
type ColorWindow struct {
	Window
	from, to colorful.Color
}

// NewColorWindow parses two "#rrggbb" (or "#rgb") colours and returns a
// window blending from one to the other.
func NewColorWindow(start, duration int, fromHex, toHex string, e easing.Easing) (ColorWindow, error) {
	from, err := colorful.Hex(fromHex)
	if err != nil {
		return ColorWindow{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	to, err := colorful.Hex(toHex)
	if err != nil {
		return ColorWindow{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}

	w, err := NewWindow(start, duration, 0, 1, e)
	if err != nil {
		return ColorWindow{}, err
	}
	return ColorWindow{Window: w, from: from, to: to}, nil
}

// At returns the colour at frame. Overshooting easings are clamped so the
// result stays a valid colour.
func (c ColorWindow) At(frame int) colorful.Color {
	t := Interpolate(frame, c.Window)
	if t <= 0 {
		return c.from
	}
	if t >= 1 {
		return c.to
	}
	return c.from.BlendLinearRgb(c.to, t).Clamped()
}

// HexAt returns the colour at frame as "#rrggbb".
func (c ColorWindow) HexAt(frame int) string {
	return c.At(frame).Hex()
}
