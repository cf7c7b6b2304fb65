package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scenetime/internal/config"
	"github.com/ivlev/scenetime/internal/scene"
	"github.com/ivlev/scenetime/internal/system"
)

// Evaluator produces the state of one frame. *scene.Compiled satisfies it.
type Evaluator interface {
	Evaluate(frame int) scene.FrameState
}

// Sampler evaluates frame ranges in parallel. Frames are independent, so
// workers split the range freely and results land in pre-sized slots.
type Sampler struct {
	Config *config.Config
	Scene  Evaluator
	// BenchmarkLog receives one line per run when Config.ShowStats is set.
	BenchmarkLog string
}

// NewSampler creates a sampler for sc.
func NewSampler(cfg *config.Config, sc Evaluator) *Sampler {
	return &Sampler{
		Config:       cfg,
		Scene:        sc,
		BenchmarkLog: "benchmark.log",
	}
}

// Report describes one sampling run.
type Report struct {
	SceneID  string
	Frames   int
	Workers  int
	Evaluate time.Duration
	Write    time.Duration
	Total    time.Duration
}

// FPS is the effective evaluation throughput.
func (r Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

// Sample evaluates frames [from, to) and returns them in frame order.
func (s *Sampler) Sample(ctx context.Context, from, to int) ([]scene.FrameState, error) {
	if to < from {
		return nil, fmt.Errorf("invalid frame range [%d, %d)", from, to)
	}
	n := to - from
	out := make([]scene.FrameState, n)
	if n == 0 {
		return out, nil
	}

	workers := system.Workers(s.Config.Workers, n)
	// A few chunks per worker keeps the pool busy when frame costs differ.
	chunk := (n + workers*4 - 1) / (workers * 4)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		if ctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = s.Scene.Evaluate(from + i)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The parent may have been cancelled between chunks without any worker seeing it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Run samples [from, to) and writes one JSON object per line to w.
func (s *Sampler) Run(ctx context.Context, w io.Writer, sceneID string, from, to int) (Report, error) {
	startTime := time.Now()
	report := Report{SceneID: sceneID, Frames: to - from, Workers: system.Workers(s.Config.Workers, to-from)}

	states, err := s.Sample(ctx, from, to)
	if err != nil {
		return report, err
	}
	report.Evaluate = time.Since(startTime)

	writeStart := time.Now()
	if err := WriteJSONLines(w, states); err != nil {
		return report, err
	}
	report.Write = time.Since(writeStart)
	report.Total = time.Since(startTime)

	if s.Config.ShowStats {
		s.printReport(report)
	}
	return report, nil
}

// WriteJSONLines writes each state as a single JSON line.
func WriteJSONLines(w io.Writer, states []scene.FrameState) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range states {
		if err := enc.Encode(&states[i]); err != nil {
			return fmt.Errorf("frame %d: %w", states[i].Frame, err)
		}
	}
	return bw.Flush()
}

func (s *Sampler) printReport(r Report) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Scene: %s\n"+
			"Frames: %d | Workers: %d\n"+
			"Total Time: %.3fs\n"+
			"Evaluation: %.3fs\n"+
			"Output: %.3fs\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		s.Config.BuildVersion, r.SceneID, r.Frames, r.Workers,
		r.Total.Seconds(), r.Evaluate.Seconds(), r.Write.Seconds(), r.FPS(),
		system.Snapshot(),
	)
	fmt.Fprint(os.Stderr, report)

	if s.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Frames: %d | Workers: %d | Total: %.3fs | Eval: %.3fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		s.Config.BuildVersion,
		r.SceneID,
		r.Frames,
		r.Workers,
		r.Total.Seconds(),
		r.Evaluate.Seconds(),
		r.FPS(),
	)

	if err := appendLine(s.BenchmarkLog, logEntry); err != nil {
		fmt.Fprintf(os.Stderr, "[!] Не удалось записать %s: %v\n", s.BenchmarkLog, err)
	}
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
