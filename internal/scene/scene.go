package scene

import (
	"github.com/ivlev/scenetime/internal/camera"
	"github.com/ivlev/scenetime/internal/caption"
	"github.com/ivlev/scenetime/internal/easing"
)

// Scene is the declarative recipe for one scene of a video
type Scene struct {
	Version        string             `yaml:"version"`
	ID             string             `yaml:"id"`
	FPS            float64            `yaml:"fps,omitempty"`
	Duration       float64            `yaml:"duration,omitempty"`        // Seconds
	DurationFrames int                `yaml:"duration_frames,omitempty"` // Overrides Duration
	Captions       []caption.Interval `yaml:"captions,omitempty"`
	CaptionsFile   string             `yaml:"captions_file,omitempty"` // s{n}_timed.json, relative to the scene file
	Camera         *Camera            `yaml:"camera,omitempty"`
	Tracks         []Track            `yaml:"tracks,omitempty"`
	Stops          []StopTrack        `yaml:"stops,omitempty"`
	Pulses         []Pulse            `yaml:"pulses,omitempty"`
	Reveals        []Reveal           `yaml:"reveals,omitempty"`
	Colors         []Color            `yaml:"colors,omitempty"`
}

// Camera holds the scene's camera container
type Camera struct {
	Initial *camera.State `yaml:"initial,omitempty"` // Defaults to scale 1 at the origin
	Moves   []camera.Move `yaml:"moves,omitempty"`
}

// Track is a single keyframe window, optionally built from a named preset
// (fade-in, fade-out, slide-in-left, slide-in-right, scale-in, camera-zoom, draw-line).
type Track struct {
	Name     string        `yaml:"name"`
	Preset   string        `yaml:"preset,omitempty"`
	Start    int           `yaml:"start,omitempty"`
	At       *float64      `yaml:"at,omitempty"` // Start in seconds, overrides Start
	Duration int           `yaml:"duration"`
	From     float64       `yaml:"from,omitempty"`
	To       float64       `yaml:"to,omitempty"`
	Easing   easing.Easing `yaml:"easing,omitempty"`
}

// StopTrack is a multi-keyframe track such as a shake.
type StopTrack struct {
	Name   string        `yaml:"name"`
	Frames []int         `yaml:"frames"`
	Values []float64     `yaml:"values"`
	Easing easing.Easing `yaml:"easing,omitempty"`
}

// Pulse is a periodic oscillation.
type Pulse struct {
	Name  string   `yaml:"name"`
	Cycle int      `yaml:"cycle"`
	Min   float64  `yaml:"min"`
	Max   float64  `yaml:"max"`
	Phase int      `yaml:"phase,omitempty"`
	At    *float64 `yaml:"at,omitempty"` // Phase in seconds, overrides Phase
}

// Reveal is a typewriter text reveal.
type Reveal struct {
	Name     string        `yaml:"name"`
	Text     string        `yaml:"text"`
	Start    int           `yaml:"start,omitempty"`
	At       *float64      `yaml:"at,omitempty"`
	Duration int           `yaml:"duration"`
	Easing   easing.Easing `yaml:"easing,omitempty"`
}

// Color is a colour fade between two hex colours.
type Color struct {
	Name     string        `yaml:"name"`
	Start    int           `yaml:"start,omitempty"`
	At       *float64      `yaml:"at,omitempty"`
	Duration int           `yaml:"duration"`
	From     string        `yaml:"from"`
	To       string        `yaml:"to"`
	Easing   easing.Easing `yaml:"easing,omitempty"`
}

// FrameState is everything a host renderer needs for one frame.
type FrameState struct {
	Frame   int                `json:"frame"`
	Seconds float64            `json:"seconds"`
	Caption string             `json:"caption,omitempty"`
	Camera  camera.State       `json:"camera"`
	Values  map[string]float64 `json:"values,omitempty"`
	Reveals map[string]string  `json:"reveals,omitempty"`
	Colors  map[string]string  `json:"colors,omitempty"`
}
