package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/scenetime/internal/config"
	"github.com/ivlev/scenetime/internal/scene"
)

var (
	configPath string
	fpsFlag    float64
	workers    int
	showStats  bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scenetime",
	Short: "Frame-exact timeline evaluation for programmatic video scenes",
	Long: "scenetime evaluates declarative scene files (captions, camera moves, eased tracks,\n" +
		"pulses, text reveals and colour fades) at any frame, and exports the result as\n" +
		"JSON lines, SRT subtitles, PNG charts or a live MQTT stream.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("fps") {
			loaded.FPS = fpsFlag
		}
		if cmd.Flags().Changed("workers") {
			loaded.Workers = workers
		}
		if cmd.Flags().Changed("stats") {
			loaded.ShowStats = showStats
		}
		loaded.BuildVersion = version
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (defaults apply when empty)")
	rootCmd.PersistentFlags().Float64Var(&fpsFlag, "fps", 30, "frames per second, overrides the scene and config")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per logical CPU)")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print a performance report")
	rootCmd.Version = version
}

// resolveScene returns the scene path from args, or the newest scene file in
// the configured scenes directory.
func resolveScene(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	latest, err := scene.FindLatest(cfg.ScenesDir)
	if err != nil {
		return "", fmt.Errorf("%w. Положите сцену в %s/", err, cfg.ScenesDir)
	}
	log.Printf("[*] Выбрана сцена: %s", latest)
	return latest, nil
}

// loadScene reads and compiles a scene. fps precedence: --fps flag, the
// scene file, then the config.
func loadScene(cmd *cobra.Command, path string) (*scene.Compiled, error) {
	s, err := scene.ReadScene(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if cmd.Flags().Changed("fps") || s.FPS == 0 {
		s.FPS = cfg.FPS
	}

	sc, err := scene.Compile(s, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	for _, w := range sc.Warnings() {
		log.Printf("[!] %s: %s", path, w)
	}
	return sc, nil
}

// frameRange clamps the --from/--to flags to the scene. A negative to means
// the end of the scene.
func frameRange(sc *scene.Compiled, from, to int) (int, int, error) {
	if to < 0 {
		to = sc.Frames
	}
	if from < 0 || to < from {
		return 0, 0, fmt.Errorf("invalid frame range [%d, %d)", from, to)
	}
	return from, to, nil
}

// createOutput opens path for writing, creating parent directories. "-"
// selects stdout.
func createOutput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
