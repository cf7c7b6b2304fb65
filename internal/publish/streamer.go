// Package publish streams evaluated frame states to a message broker in
// real time, so a live renderer can follow the timeline.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ivlev/scenetime/internal/scene"
)

// Publisher sends one message. *Client satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Evaluator produces the state of one frame. *scene.Compiled satisfies it.
type Evaluator interface {
	Evaluate(frame int) scene.FrameState
}

// Topic returns the frame topic for a scene: <prefix>/<scene id>/frame.
func Topic(prefix, sceneID string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return sceneID + "/frame"
	}
	return prefix + "/" + sceneID + "/frame"
}

// Streamer publishes frames [From, To) at FPS. With Loop set it starts over
// at From instead of stopping.
type Streamer struct {
	pub   Publisher
	scene Evaluator
	topic string
	fps   float64

	From, To int
	Loop     bool
}

// NewStreamer creates a streamer for frames [0, frames).
func NewStreamer(pub Publisher, ev Evaluator, topic string, fps float64, frames int) *Streamer {
	return &Streamer{
		pub:   pub,
		scene: ev,
		topic: topic,
		fps:   fps,
		To:    frames,
	}
}

// SendFrame evaluates and publishes a single frame.
func (s *Streamer) SendFrame(frame int) error {
	b, err := json.Marshal(s.scene.Evaluate(frame))
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	if err := s.pub.Publish(s.topic, b); err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	return nil
}

// Run publishes one frame per tick until the range is done or ctx ends.
// It returns the number of frames sent.
func (s *Streamer) Run(ctx context.Context) (int, error) {
	if !(s.fps > 0) || math.IsInf(s.fps, 0) {
		return 0, fmt.Errorf("fps must be positive and finite, got %v", s.fps)
	}
	if s.To <= s.From {
		return 0, nil
	}

	publishTimer := time.NewTicker(tickPeriod(s.fps))
	defer publishTimer.Stop()

	sent := 0
	frame := s.From
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.SendFrame(frame); err != nil {
			return sent, err
		}
		sent++

		frame++
		if frame >= s.To {
			if !s.Loop {
				return sent, nil
			}
			frame = s.From
		}

		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		case <-publishTimer.C:
		}
	}
}

// tickPeriod is one frame at fps, never shorter than a nanosecond.
func tickPeriod(fps float64) time.Duration {
	return max(time.Duration(float64(time.Second)/fps), time.Nanosecond)
}
