package timeline

import (
	"math"

	"github.com/ivlev/scenetime/internal/easing"
)

// Preset easings used across scenes.
var (
	fadeInEasing  = easing.MustNew(easing.CubicOut)
	fadeOutEasing = easing.MustNew(easing.CubicIn)
	slideEasing   = easing.MustNew(easing.CubicOut)
	scaleEasing   = easing.Easing{Kind: easing.BackOut, Overshoot: 1.5}
	cameraEasing  = easing.MustNew(easing.CubicInOut)
)

// DefaultSlideDistance is the offset slide-ins start from, in pixels.
const DefaultSlideDistance = 200

// FadeIn takes opacity from 0 to 1.
func FadeIn(start, duration int) Window {
	return Window{Start: start, Duration: duration, From: 0, To: 1, Easing: fadeInEasing}
}

// FadeOut takes opacity from 1 to 0.
func FadeOut(start, duration int) Window {
	return Window{Start: start, Duration: duration, From: 1, To: 0, Easing: fadeOutEasing}
}

// SlideInLeft moves an element in from distance pixels to the left.
func SlideInLeft(start, duration int, distance float64) Window {
	return Window{Start: start, Duration: duration, From: -distance, To: 0, Easing: slideEasing}
}

// SlideInRight moves an element in from distance pixels to the right.
func SlideInRight(start, duration int, distance float64) Window {
	return Window{Start: start, Duration: duration, From: distance, To: 0, Easing: slideEasing}
}

// ScaleIn grows an element with a slight overshoot.
func ScaleIn(start, duration int, from, to float64) Window {
	return Window{Start: start, Duration: duration, From: from, To: to, Easing: scaleEasing}
}

// CameraZoom is a slow in-out zoom, usually over a whole scene.
func CameraZoom(start, duration int, from, to float64) Window {
	return Window{Start: start, Duration: duration, From: from, To: to, Easing: cameraEasing}
}

// DrawLine runs a stroke offset from 1 (hidden) to 0 (fully drawn).
func DrawLine(start, duration int) Window {
	return Window{Start: start, Duration: duration, From: 1, To: 0, Easing: easing.Easing{Kind: easing.Linear}}
}

// Preset builds a named preset window. from and to are used by the presets
// that take values (slide-in uses from as the distance); a zero selects the
// preset's default. ok is false for unknown names.
func Preset(name string, start, duration int, from, to float64) (w Window, ok bool) {
	switch name {
	case "fade-in":
		return FadeIn(start, duration), true
	case "fade-out":
		return FadeOut(start, duration), true
	case "slide-in-left":
		return SlideInLeft(start, duration, orDefault(from, DefaultSlideDistance)), true
	case "slide-in-right":
		return SlideInRight(start, duration, orDefault(from, DefaultSlideDistance)), true
	case "scale-in":
		return ScaleIn(start, duration, from, orDefault(to, 1)), true
	case "camera-zoom":
		return CameraZoom(start, duration, orDefault(from, 1), orDefault(to, 1.2)), true
	case "draw-line":
		return DrawLine(start, duration), true
	}
	return Window{}, false
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// SecondsToFrames converts a time offset to the nearest frame.
func SecondsToFrames(seconds, fps float64) int {
	return int(math.Round(seconds * fps))
}

// FramesToSeconds converts a frame number to seconds.
func FramesToSeconds(frame int, fps float64) float64 {
	return float64(frame) / fps
}
