package publish

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ivlev/scenetime/internal/scene"
)

type recorder struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	failAt   int
	cancelAt int
	cancel   context.CancelFunc
}

func (r *recorder) Publish(topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt > 0 && len(r.payloads)+1 == r.failAt {
		return errors.New("broker gone")
	}
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, payload)
	if r.cancel != nil && len(r.payloads) == r.cancelAt {
		r.cancel()
	}
	return nil
}

type frameScene struct{}

func (frameScene) Evaluate(frame int) scene.FrameState {
	return scene.FrameState{Frame: frame, Seconds: float64(frame) / 1000}
}

func frames(t *testing.T, r *recorder) []int {
	t.Helper()
	var out []int
	for _, p := range r.payloads {
		var st scene.FrameState
		if err := json.Unmarshal(p, &st); err != nil {
			t.Fatalf("payload %s: %v", p, err)
		}
		out = append(out, st.Frame)
	}
	return out
}

func TestTopic(t *testing.T) {
	tests := []struct{ prefix, id, want string }{
		{"scenetime", "s3", "scenetime/s3/frame"},
		{"video/", "s3", "video/s3/frame"},
		{"", "s3", "s3/frame"},
	}
	for _, tt := range tests {
		if got := Topic(tt.prefix, tt.id); got != tt.want {
			t.Errorf("Topic(%q, %q) = %q, want %q", tt.prefix, tt.id, got, tt.want)
		}
	}
}

func TestRunPublishesRangeInOrder(t *testing.T) {
	r := &recorder{}
	s := NewStreamer(r, frameScene{}, "x/s3/frame", 1000, 5)
	s.From = 2

	sent, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sent != 3 {
		t.Errorf("sent = %d, want 3", sent)
	}
	got := frames(t, r)
	if len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Errorf("frames = %v", got)
	}
	for _, topic := range r.topics {
		if topic != "x/s3/frame" {
			t.Errorf("topic = %q", topic)
		}
	}
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &recorder{cancel: cancel, cancelAt: 7}
	s := NewStreamer(r, frameScene{}, "t", 1000, 3)
	s.Loop = true

	sent, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sent != 7 {
		t.Errorf("sent = %d, want 7", sent)
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	got := frames(t, r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v, want %v", got, want)
		}
	}
}

func TestRunStopsOnPublishError(t *testing.T) {
	r := &recorder{failAt: 2}
	s := NewStreamer(r, frameScene{}, "t", 1000, 10)

	sent, err := s.Run(context.Background())
	if err == nil || sent != 1 {
		t.Errorf("sent = %d, err = %v", sent, err)
	}
}

func TestRunRejectsBadFPS(t *testing.T) {
	for _, fps := range []float64{0, -24, math.NaN(), math.Inf(1)} {
		s := NewStreamer(&recorder{}, frameScene{}, "t", fps, 10)
		if _, err := s.Run(context.Background()); err == nil {
			t.Errorf("expected error for fps %v", fps)
		}
	}
}

func TestRunHugeFPS(t *testing.T) {
	r := &recorder{}
	s := NewStreamer(r, frameScene{}, "t", 2e9, 3)
	sent, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sent != 3 {
		t.Errorf("sent %d frames, want 3", sent)
	}
	if got := tickPeriod(2e9); got != time.Nanosecond {
		t.Errorf("tickPeriod(2e9) = %v", got)
	}
	if got := tickPeriod(25); got != 40*time.Millisecond {
		t.Errorf("tickPeriod(25) = %v", got)
	}
}
