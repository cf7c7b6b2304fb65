package scene

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scenetime/internal/camera"
	"github.com/ivlev/scenetime/internal/caption"
	"github.com/ivlev/scenetime/internal/easing"
	"github.com/ivlev/scenetime/internal/timeline"
)

func loadS3(t *testing.T) *Compiled {
	t.Helper()
	c, err := Load(filepath.Join("testdata", "s3.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadScene(t *testing.T) {
	c := loadS3(t)
	if c.ID != "s3" || c.FPS != 30 {
		t.Errorf("id/fps = %q/%v", c.ID, c.FPS)
	}
	if c.Frames != 264 {
		t.Errorf("Frames = %d, want 264", c.Frames)
	}
	if c.Captions.Len() != 4 {
		t.Errorf("captions = %d", c.Captions.Len())
	}
	if w := c.Warnings(); len(w) != 0 {
		t.Errorf("unexpected warnings: %v", w)
	}
}

func TestEvaluateCaptions(t *testing.T) {
	c := loadS3(t)

	tests := []struct {
		frame int
		want  string
	}{
		{0, "그런데 여기서 반전!"},
		{47, "그런데 여기서 반전!"},
		{48, ""}, // 1.6s, in the gap
		{69, "민간에서도 얼음 장사가 성행했습니다."},
		{217, "여름에 비싸게 파는 사업이었죠."}, // 7.2333s
		{264, ""},
	}
	for _, tt := range tests {
		if got := c.Evaluate(tt.frame).Caption; got != tt.want {
			t.Errorf("frame %d: caption %q, want %q", tt.frame, got, tt.want)
		}
	}
}

func TestEvaluateProperties(t *testing.T) {
	c := loadS3(t)

	st := c.Evaluate(0)
	if st.Values["fade"] != 0 || st.Values["slide"] != -200 {
		t.Errorf("frame 0 values: %v", st.Values)
	}
	if math.Abs(st.Values["glow"]-0.7) > 1e-9 {
		t.Errorf("glow at 0 = %v, want 0.7", st.Values["glow"])
	}
	if st.Reveals["title"] != "" || st.Colors["bg"] != "#000000" {
		t.Errorf("frame 0: reveal %q color %q", st.Reveals["title"], st.Colors["bg"])
	}
	if st.Camera != camera.Identity {
		t.Errorf("frame 0 camera = %+v", st.Camera)
	}

	st = c.Evaluate(15)
	if st.Values["fade"] != 1 || math.Abs(st.Values["glow"]-1) > 1e-9 {
		t.Errorf("frame 15 values: %v", st.Values)
	}
	if st.Reveals["title"] != "얼음 장사" || st.Colors["bg"] != "#ffffff" {
		t.Errorf("frame 15: reveal %q color %q", st.Reveals["title"], st.Colors["bg"])
	}
	if st.Values["shake"] != 0 {
		t.Errorf("shake after last stop = %v", st.Values["shake"])
	}
	if st.Camera.Scale != 2 || st.Camera.X <= 0 || st.Camera.X >= 100 {
		t.Errorf("frame 15 camera = %+v", st.Camera)
	}

	if v := c.Evaluate(5).Values["shake"]; v != 8 {
		t.Errorf("shake at 5 = %v, want 8", v)
	}
	if v := c.Evaluate(68 + 20).Values["slide"]; v != 0 {
		t.Errorf("slide after window = %v, want 0", v)
	}
	if cam := c.Evaluate(30).Camera; cam != (camera.State{Scale: 2, X: 100}) {
		t.Errorf("frame 30 camera = %+v", cam)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	c := loadS3(t)
	forward := make([]FrameState, c.Frames)
	for f := 0; f < c.Frames; f++ {
		forward[f] = c.Evaluate(f)
	}
	for f := c.Frames - 1; f >= 0; f-- {
		if got := c.Evaluate(f); !reflect.DeepEqual(got, forward[f]) {
			t.Fatalf("frame %d differs between passes", f)
		}
	}
}

func TestValueAndNames(t *testing.T) {
	c := loadS3(t)
	want := []string{"camera.scale", "camera.x", "camera.y", "fade", "glow", "shake", "slide"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v", got)
	}
	if v, ok := c.Value("camera.scale", 10); !ok || v != 2 {
		t.Errorf("camera.scale at 10 = %v,%v", v, ok)
	}
	if v, ok := c.Value("fade", 15); !ok || v != 1 {
		t.Errorf("fade at 15 = %v,%v", v, ok)
	}
	if _, ok := c.Value("missing", 0); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestFrameStateJSON(t *testing.T) {
	c := loadS3(t)
	data, err := json.Marshal(c.Evaluate(60))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, key := range []string{`"frame":60`, `"seconds":2`, `"camera":{"scale":2,"x":`, `"values":{`} {
		if !strings.Contains(s, key) {
			t.Errorf("%s missing %s", s, key)
		}
	}
	if strings.Contains(s, `"caption"`) {
		t.Errorf("empty caption should be omitted: %s", s)
	}
}

func TestCaptionsFile(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "s3_timed.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Frames != 264 || c.Captions.Len() != 4 {
		t.Errorf("frames=%d captions=%d", c.Frames, c.Captions.Len())
	}
	if st := c.Evaluate(0); st.Camera.Scale != 1.2 || st.Caption == "" {
		t.Errorf("frame 0 = %+v", st)
	}
}

func TestCompileErrors(t *testing.T) {
	ok := func() *Scene {
		return &Scene{ID: "x", DurationFrames: 10}
	}

	tests := []struct {
		name string
		edit func(s *Scene)
	}{
		{"no duration", func(s *Scene) { s.DurationFrames = 0 }},
		{"negative fps", func(s *Scene) { s.FPS = -1 }},
		{"bad caption", func(s *Scene) { s.Captions = []caption.Interval{{Text: "x", Start: 2, End: 1}} }},
		{"both caption sources", func(s *Scene) {
			s.Captions = []caption.Interval{{Text: "x", Start: 0, End: 1}}
			s.CaptionsFile = "x.json"
		}},
		{"missing captions file", func(s *Scene) { s.CaptionsFile = "missing.json" }},
		{"negative track", func(s *Scene) { s.Tracks = []Track{{Name: "a", Duration: -1}} }},
		{"unknown preset", func(s *Scene) { s.Tracks = []Track{{Name: "a", Preset: "spin", Duration: 5}} }},
		{"unnamed track", func(s *Scene) { s.Tracks = []Track{{Duration: 5}} }},
		{"duplicate name", func(s *Scene) {
			s.Tracks = []Track{{Name: "a", Duration: 5}}
			s.Pulses = []Pulse{{Name: "a", Cycle: 10, Max: 1}}
		}},
		{"zero cycle", func(s *Scene) { s.Pulses = []Pulse{{Name: "p"}} }},
		{"unordered stops", func(s *Scene) { s.Stops = []StopTrack{{Name: "s", Frames: []int{5, 1}, Values: []float64{0, 1}}} }},
		{"bad color", func(s *Scene) { s.Colors = []Color{{Name: "c", Duration: 5, From: "red", To: "#fff"}} }},
		{"bad move", func(s *Scene) { s.Camera = &Camera{Moves: []camera.Move{{Duration: -2}}} }},
		{"infinite track", func(s *Scene) { s.Tracks = []Track{{Name: "v", Duration: 10, To: math.Inf(1)}} }},
		{"NaN track", func(s *Scene) { s.Tracks = []Track{{Name: "v", Duration: 10, From: math.NaN()}} }},
		{"infinite pulse", func(s *Scene) { s.Pulses = []Pulse{{Name: "p", Cycle: 10, Max: math.Inf(-1)}} }},
		{"NaN stop", func(s *Scene) {
			s.Stops = []StopTrack{{Name: "s", Frames: []int{0, 5}, Values: []float64{0, math.NaN()}}}
		}},
		{"infinite move", func(s *Scene) {
			s.Camera = &Camera{Moves: []camera.Move{{Duration: 5, ToScale: camera.Float(math.Inf(1))}}}
		}},
		{"infinite initial camera", func(s *Scene) { s.Camera = &Camera{Initial: &camera.State{Scale: math.Inf(1)}} }},
	}

	if _, err := Compile(ok(), "testdata"); err != nil {
		t.Fatalf("baseline scene: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok()
			tt.edit(s)
			if _, err := Compile(s, "testdata"); !errors.Is(err, ErrInvalidScene) {
				t.Errorf("expected ErrInvalidScene, got %v", err)
			}
		})
	}
}

func TestCompileRejectsInfFromYAML(t *testing.T) {
	body := "id: x\nduration_frames: 10\ntracks:\n  - {name: v, duration: 10, to: .inf}\n"
	var s Scene
	if err := yaml.Unmarshal([]byte(body), &s); err != nil {
		t.Fatal(err)
	}
	if _, err := Compile(&s, ""); !errors.Is(err, timeline.ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
}

func TestCompileKeepsCauses(t *testing.T) {
	s := &Scene{ID: "x", DurationFrames: 10, Pulses: []Pulse{{Name: "p"}}}
	_, err := Compile(s, "")
	if !errors.Is(err, timeline.ErrInvalidCycle) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestWarnings(t *testing.T) {
	s := &Scene{
		ID:       "x",
		Captions: []caption.Interval{{Text: "a", Start: 0, End: 2}, {Text: "b", Start: 1, End: 3}},
		Camera: &Camera{Moves: []camera.Move{
			{Start: 0, Duration: 10, ToScale: camera.Float(2)},
			{Start: 5, Duration: 10, ToScale: camera.Float(3)},
		}},
	}
	c, err := Compile(s, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c.Frames != caption.DurationFrames(3, DefaultFPS) {
		t.Errorf("Frames from caption end = %d", c.Frames)
	}
	if w := c.Warnings(); len(w) != 2 {
		t.Errorf("Warnings = %v", w)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	at := 1.5
	s := &Scene{
		Version:        "1",
		ID:             "rt",
		DurationFrames: 90,
		Captions:       []caption.Interval{{Text: "hi", Start: 0, End: 1}},
		Camera: &Camera{Moves: []camera.Move{
			{Start: 0, Duration: 30, ToScale: camera.Float(1.5), Easing: easing.MustParse("back-out(2)")},
		}},
		Tracks: []Track{{Name: "fade", Preset: "fade-in", At: &at, Duration: 10}},
	}

	path := filepath.Join(t.TempDir(), "rt.yaml")
	if err := WriteScene(s, path); err != nil {
		t.Fatalf("WriteScene: %v", err)
	}
	got, err := ReadScene(path)
	if err != nil {
		t.Fatalf("ReadScene: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "s1.yaml"),
		filepath.Join(dir, "s2.yml"),
		filepath.Join(dir, "s3.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("id: test"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	t.Logf("Latest scene: %s", latest)
	if latest != files[2] {
		t.Errorf("got %s, want %s", latest, files[2])
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestFindLatestSkipsBrokenLinks(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a.yaml")
	newer := filepath.Join(dir, "c.yaml")
	for i, f := range []string{older, newer} {
		if err := os.WriteFile(f, []byte("id: test"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	if err := os.Symlink(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "b.yaml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if latest != newer {
		t.Errorf("got %s, want %s", latest, newer)
	}

	only := t.TempDir()
	if err := os.Symlink(filepath.Join(only, "missing.yaml"), filepath.Join(only, "b.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, err := FindLatest(only); err == nil {
		t.Error("expected error when only a dangling link is present")
	}
}

func TestOutputPath(t *testing.T) {
	path := OutputPath("output", "s3", ".jsonl")
	if !strings.HasPrefix(path, filepath.Join("output", "s3_")) || !strings.HasSuffix(path, ".jsonl") {
		t.Errorf("OutputPath = %s", path)
	}
}
