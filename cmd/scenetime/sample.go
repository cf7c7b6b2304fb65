package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/scenetime/internal/engine"
	"github.com/ivlev/scenetime/internal/scene"
)

var (
	sampleFrom   int
	sampleTo     int
	sampleOutput string
)

var sampleCmd = &cobra.Command{
	Use:   "sample [scene.yaml]",
	Short: "Evaluate every frame of a scene and write JSON lines",
	Long:  "Evaluate frames [from, to) of a scene in parallel and write one FrameState JSON object per line.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveScene(args)
		if err != nil {
			return err
		}
		sc, err := loadScene(cmd, path)
		if err != nil {
			return err
		}
		from, to, err := frameRange(sc, sampleFrom, sampleTo)
		if err != nil {
			return err
		}

		output := sampleOutput
		if output == "" {
			output = scene.OutputPath(cfg.OutputDir, sc.ID, ".jsonl")
		}
		f, err := createOutput(output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if f != os.Stdout {
			defer f.Close()
		}

		sampler := engine.NewSampler(&cfg, sc)
		report, err := sampler.Run(context.Background(), f, sc.ID, from, to)
		if err != nil {
			return fmt.Errorf("sampling %s: %w", sc.ID, err)
		}

		if f != os.Stdout {
			log.Printf("[+++] Успех! %d кадров: %s", report.Frames, output)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().IntVar(&sampleFrom, "from", 0, "first frame")
	sampleCmd.Flags().IntVar(&sampleTo, "to", -1, "end frame, exclusive (-1 = end of scene)")
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "output file, - for stdout (default: timestamped file in output_dir)")
	rootCmd.AddCommand(sampleCmd)
}
