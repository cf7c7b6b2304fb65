// Package plot draws value-over-frame charts of scene properties so authors
// can eyeball easing curves and camera moves without rendering video.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scenetime/internal/system"
)

// ErrUnknownProperty is returned when a property name does not resolve.
var ErrUnknownProperty = errors.New("unknown property")

// ValueSource resolves a named numeric property at a frame.
// *scene.Compiled satisfies it.
type ValueSource interface {
	Value(name string, frame int) (float64, bool)
}

// Series is a sampled property: Values[i] belongs to frame From+i.
type Series struct {
	Name   string
	From   int
	Values []float64
}

// Sample reads name over frames [from, to).
func Sample(src ValueSource, name string, from, to int) (Series, error) {
	s := Series{Name: name, From: from, Values: make([]float64, 0, max(to-from, 0))}
	for f := from; f < to; f++ {
		v, ok := src.Value(name, f)
		if !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
		}
		s.Values = append(s.Values, v)
	}
	return s, nil
}

// Bounds returns the smallest and largest value. A flat series is widened so
// it still plots as a line in the middle of the chart.
func (s Series) Bounds() (lo, hi float64) {
	if len(s.Values) == 0 {
		return 0, 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// Options controls chart appearance.
type Options struct {
	Width, Height int
	Background    string // Hex colours
	Grid          string
	Line          string
	Text          string
	Supersample   int // Lines are drawn this many times larger and scaled down
}

// DefaultOptions is a dark 960x360 chart.
var DefaultOptions = Options{
	Width:       960,
	Height:      360,
	Background:  "#1b1d23",
	Grid:        "#3a3f4b",
	Line:        "#61afef",
	Text:        "#dcdfe4",
	Supersample: 2,
}

const margin = 40

// Render draws s as a line chart.
func Render(s Series, opts Options) (*image.RGBA, error) {
	if opts.Width <= 2*margin || opts.Height <= 2*margin {
		return nil, fmt.Errorf("chart %dx%d is too small", opts.Width, opts.Height)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	bg, err := parseColor(opts.Background)
	if err != nil {
		return nil, err
	}
	grid, err := parseColor(opts.Grid)
	if err != nil {
		return nil, err
	}
	line, err := parseColor(opts.Line)
	if err != nil {
		return nil, err
	}
	text, err := parseColor(opts.Text)
	if err != nil {
		return nil, err
	}

	ss := opts.Supersample
	big := image.Rect(0, 0, opts.Width*ss, opts.Height*ss)
	canvas := system.Canvas(big.Dx(), big.Dy(), bg)
	defer system.ReleaseCanvas(canvas)

	plotArea := image.Rect(margin*ss, margin*ss, (opts.Width-margin)*ss, (opts.Height-margin)*ss)
	lo, hi := s.Bounds()

	// Horizontal grid at the bounds and the midpoint
	for _, y := range []int{plotArea.Min.Y, plotArea.Min.Y + plotArea.Dy()/2, plotArea.Max.Y} {
		hline(canvas, plotArea.Min.X, plotArea.Max.X, y, ss, grid)
	}

	n := len(s.Values)
	project := func(i int) image.Point {
		x := plotArea.Min.X
		if n > 1 {
			x += i * plotArea.Dx() / (n - 1)
		}
		frac := (s.Values[i] - lo) / (hi - lo)
		y := plotArea.Max.Y - int(math.Round(frac*float64(plotArea.Dy())))
		return image.Pt(x, y)
	}
	for i := 1; i < n; i++ {
		thickLine(canvas, project(i-1), project(i), ss, line)
	}
	if n == 1 {
		p := project(0)
		thickLine(canvas, p, p, ss*2, line)
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, big, draw.Src, nil)

	// Labels are drawn at final resolution so the bitmap font stays crisp.
	label(out, text, 8, 20, s.Name)
	label(out, text, 4, margin+4, formatValue(hi))
	label(out, text, 4, opts.Height-margin+4, formatValue(lo))
	if n > 0 {
		label(out, text, margin, opts.Height-12, fmt.Sprintf("frame %d", s.From))
		last := fmt.Sprintf("frame %d", s.From+n-1)
		w := font.MeasureString(basicfont.Face7x13, last).Ceil()
		label(out, text, opts.Width-margin-w, opts.Height-12, last)
	}
	return out, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func parseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("chart colour %q: %w", hex, err)
	}
	return c, nil
}

func hline(dst *image.RGBA, x0, x1, y, width int, c color.Color) {
	draw.Draw(dst, image.Rect(x0, y-width/2, x1, y-width/2+width), image.NewUniform(c), image.Point{}, draw.Over)
}

// thickLine draws a square-brush Bresenham line.
func thickLine(dst *image.RGBA, a, b image.Point, width int, c color.Color) {
	brush := image.NewUniform(c)
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	x, y := a.X, a.Y
	for {
		r := image.Rect(x-width/2, y-width/2, x-width/2+width, y-width/2+width)
		draw.Draw(dst, r, brush, image.Point{}, draw.Src)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func label(dst *image.RGBA, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.3g", v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
