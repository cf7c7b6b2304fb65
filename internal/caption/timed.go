package caption

import (
	"encoding/json"
	"fmt"
	"os"
)

// Timed is the per-scene timing file written by the narration pipeline
// (s{n}_timed.json). Older files carry subtitle_segments instead of captions
// and a top-level duration instead of timing.duration.
type Timed struct {
	SceneID  string     `json:"scene_id"`
	Section  string     `json:"section"`
	Timing   TimedRange `json:"timing"`
	Captions []Interval `json:"captions"`
	Segments []Interval `json:"subtitle_segments"`
	Duration float64    `json:"duration"`
}

// TimedRange locates a scene inside its section audio.
type TimedRange struct {
	SectionAudio string  `json:"section_audio"`
	SceneStart   float64 `json:"scene_start"`
	SceneEnd     float64 `json:"scene_end"`
	Duration     float64 `json:"duration"`
}

// SceneDuration returns the scene length in seconds, or 0 if the file has none.
func (t *Timed) SceneDuration() float64 {
	if t.Timing.Duration > 0 {
		return t.Timing.Duration
	}
	return t.Duration
}

// Intervals returns the caption list, whichever key the file used.
func (t *Timed) Intervals() []Interval {
	if len(t.Captions) > 0 {
		return t.Captions
	}
	return t.Segments
}

// ReadTimed parses a timing file.
func ReadTimed(path string) (*Timed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var timed Timed
	if err := json.Unmarshal(data, &timed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &timed, nil
}

// LoadTimed reads a timing file and validates its captions into a Track.
func LoadTimed(path string) (*Track, *Timed, error) {
	timed, err := ReadTimed(path)
	if err != nil {
		return nil, nil, err
	}
	track, err := NewTrack(timed.Intervals())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return track, timed, nil
}
