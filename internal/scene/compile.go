package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ivlev/scenetime/internal/camera"
	"github.com/ivlev/scenetime/internal/caption"
	"github.com/ivlev/scenetime/internal/timeline"
)

// ErrInvalidScene wraps every problem found while compiling a scene.
var ErrInvalidScene = errors.New("invalid scene")

// DefaultFPS is used when a scene does not set fps.
const DefaultFPS = 30

// Compiled is a validated scene ready for evaluation. It is immutable and
// safe for concurrent use.
type Compiled struct {
	ID       string
	FPS      float64
	Frames   int
	Captions *caption.Track

	initial camera.State
	moves   []camera.Move
	values  []namedValue
	reveals []namedReveal
	colors  []namedColor
}

type namedValue struct {
	name string
	at   func(frame int) float64
}

type namedReveal struct {
	name string
	text string
	w    timeline.Window
}

type namedColor struct {
	name string
	c    timeline.ColorWindow
}

// Compile validates s and builds the engine objects it describes. baseDir
// resolves captions_file; pass "" to resolve against the working directory.
func Compile(s *Scene, baseDir string) (*Compiled, error) {
	c := &Compiled{ID: s.ID, FPS: s.FPS, initial: camera.Identity}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.FPS < 0 {
		return nil, invalid("fps must be positive, got %v", s.FPS)
	}

	timed, err := c.compileCaptions(s, baseDir)
	if err != nil {
		return nil, err
	}
	if err := c.compileCamera(s); err != nil {
		return nil, err
	}

	names := map[string]bool{}
	claim := func(kind, name string) error {
		if name == "" {
			return invalid("%s without a name", kind)
		}
		if names[name] {
			return invalid("duplicate name %q", name)
		}
		names[name] = true
		return nil
	}

	for _, t := range s.Tracks {
		if err := claim("track", t.Name); err != nil {
			return nil, err
		}
		w, err := c.trackWindow(t)
		if err != nil {
			return nil, err
		}
		c.values = append(c.values, namedValue{t.Name, func(f int) float64 { return timeline.Interpolate(f, w) }})
	}

	for _, st := range s.Stops {
		if err := claim("stops", st.Name); err != nil {
			return nil, err
		}
		stops, err := timeline.NewStops(st.Frames, st.Values, st.Easing)
		if err != nil {
			return nil, invalid("stops %q: %w", st.Name, err)
		}
		c.values = append(c.values, namedValue{st.Name, stops.Value})
	}

	for _, p := range s.Pulses {
		if err := claim("pulse", p.Name); err != nil {
			return nil, err
		}
		o := timeline.Oscillator{Cycle: p.Cycle, Min: p.Min, Max: p.Max, Phase: c.frameOf(p.Phase, p.At)}
		if err := o.Validate(); err != nil {
			return nil, invalid("pulse %q: %w", p.Name, err)
		}
		c.values = append(c.values, namedValue{p.Name, o.Value})
	}

	for _, r := range s.Reveals {
		if err := claim("reveal", r.Name); err != nil {
			return nil, err
		}
		w, err := timeline.NewWindow(c.frameOf(r.Start, r.At), r.Duration, 0, 0, r.Easing)
		if err != nil {
			return nil, invalid("reveal %q: %w", r.Name, err)
		}
		c.reveals = append(c.reveals, namedReveal{r.Name, r.Text, w})
	}

	for _, col := range s.Colors {
		if err := claim("color", col.Name); err != nil {
			return nil, err
		}
		cw, err := timeline.NewColorWindow(c.frameOf(col.Start, col.At), col.Duration, col.From, col.To, col.Easing)
		if err != nil {
			return nil, invalid("color %q: %w", col.Name, err)
		}
		c.colors = append(c.colors, namedColor{col.Name, cw})
	}

	c.Frames = c.frameCount(s, timed)
	if c.Frames <= 0 {
		return nil, invalid("scene %q has no duration", s.ID)
	}
	return c, nil
}

func (c *Compiled) compileCaptions(s *Scene, baseDir string) (*caption.Timed, error) {
	intervals := s.Captions
	var timed *caption.Timed

	if s.CaptionsFile != "" {
		if len(s.Captions) > 0 {
			return nil, invalid("captions and captions_file are mutually exclusive")
		}
		path := s.CaptionsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		timed, err = caption.ReadTimed(path)
		if err != nil {
			return nil, invalid("captions file: %w", err)
		}
		intervals = timed.Intervals()
	}

	track, err := caption.NewTrack(intervals)
	if err != nil {
		return nil, invalid("%w", err)
	}
	c.Captions = track
	return timed, nil
}

func (c *Compiled) compileCamera(s *Scene) error {
	if s.Camera == nil {
		return nil
	}
	if s.Camera.Initial != nil {
		if err := s.Camera.Initial.Validate(); err != nil {
			return invalid("initial %w", err)
		}
		c.initial = *s.Camera.Initial
	}
	for _, m := range s.Camera.Moves {
		if err := m.Validate(); err != nil {
			return invalid("%w", err)
		}
	}
	c.moves = append([]camera.Move(nil), s.Camera.Moves...)
	return nil
}

func (c *Compiled) trackWindow(t Track) (timeline.Window, error) {
	start := c.frameOf(t.Start, t.At)
	w := timeline.Window{Start: start, Duration: t.Duration, From: t.From, To: t.To, Easing: t.Easing}

	if t.Preset != "" {
		p, ok := timeline.Preset(t.Preset, start, t.Duration, t.From, t.To)
		if !ok {
			return w, invalid("track %q: unknown preset %q", t.Name, t.Preset)
		}
		if t.Easing.Kind != "" {
			p.Easing = t.Easing
		}
		w = p
	}

	if err := w.Validate(); err != nil {
		return w, invalid("track %q: %w", t.Name, err)
	}
	return w, nil
}

func (c *Compiled) frameOf(frame int, at *float64) int {
	if at != nil {
		return timeline.SecondsToFrames(*at, c.FPS)
	}
	return frame
}

func (c *Compiled) frameCount(s *Scene, timed *caption.Timed) int {
	switch {
	case s.DurationFrames > 0:
		return s.DurationFrames
	case s.Duration > 0:
		return caption.DurationFrames(s.Duration, c.FPS)
	case timed != nil && timed.SceneDuration() > 0:
		return caption.DurationFrames(timed.SceneDuration(), c.FPS)
	case c.Captions.Len() > 0:
		return caption.DurationFrames(c.Captions.End(), c.FPS)
	}
	return 0
}

// Evaluate computes the state of every declared property at frame.
func (c *Compiled) Evaluate(frame int) FrameState {
	st := FrameState{
		Frame:   frame,
		Seconds: timeline.FramesToSeconds(frame, c.FPS),
		Camera:  camera.Compose(frame, c.initial, c.moves),
	}

	if iv, ok := c.Captions.Select(st.Seconds); ok {
		st.Caption = iv.Text
	}
	if len(c.values) > 0 {
		st.Values = make(map[string]float64, len(c.values))
		for _, v := range c.values {
			st.Values[v.name] = v.at(frame)
		}
	}
	if len(c.reveals) > 0 {
		st.Reveals = make(map[string]string, len(c.reveals))
		for _, r := range c.reveals {
			st.Reveals[r.name] = timeline.RevealText(frame, r.w, r.text)
		}
	}
	if len(c.colors) > 0 {
		st.Colors = make(map[string]string, len(c.colors))
		for _, col := range c.colors {
			st.Colors[col.name] = col.c.HexAt(frame)
		}
	}
	return st
}

// Value returns a single named numeric property at frame. The camera is
// addressable as camera.scale, camera.x and camera.y.
func (c *Compiled) Value(name string, frame int) (float64, bool) {
	switch name {
	case "camera.scale":
		return camera.Compose(frame, c.initial, c.moves).Scale, true
	case "camera.x":
		return camera.Compose(frame, c.initial, c.moves).X, true
	case "camera.y":
		return camera.Compose(frame, c.initial, c.moves).Y, true
	}
	for _, v := range c.values {
		if v.name == name {
			return v.at(frame), true
		}
	}
	return 0, false
}

// Names lists the numeric properties accepted by Value, sorted.
func (c *Compiled) Names() []string {
	names := []string{"camera.scale", "camera.x", "camera.y"}
	for _, v := range c.values {
		names = append(names, v.name)
	}
	sort.Strings(names)
	return names
}

// Warnings lists data-quality issues that do not stop evaluation:
// overlapping captions and overlapping camera moves.
func (c *Compiled) Warnings() []string {
	var out []string
	all := c.Captions.Intervals()
	for _, p := range c.Captions.Overlaps() {
		out = append(out, fmt.Sprintf("captions %d (%q) and %d (%q) overlap; the first one wins",
			p[0]+1, all[p[0]].Text, p[1]+1, all[p[1]].Text))
	}
	for _, p := range camera.Overlaps(c.moves) {
		out = append(out, fmt.Sprintf("camera moves %d and %d overlap; move %d wins where both run",
			p[0]+1, p[1]+1, p[1]+1))
	}
	return out
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w", ErrInvalidScene, fmt.Errorf(format, args...))
}
