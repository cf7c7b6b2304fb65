package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/scenetime/internal/plot"
)

var (
	plotProperties []string
	plotOutputDir  string
	plotWidth      int
	plotHeight     int
)

var plotCmd = &cobra.Command{
	Use:   "plot [scene.yaml]",
	Short: "Chart scene properties over time as PNG",
	Long:  "Draw one PNG chart per numeric property (tracks, stops, pulses and camera.scale/x/y).",
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

		names := plotProperties
		if len(names) == 0 {
			names = sc.Names()
		}
		dir := plotOutputDir
		if dir == "" {
			dir = filepath.Join(cfg.OutputDir, sc.ID+"_plots")
		}

		opts := plot.DefaultOptions
		opts.Width, opts.Height = plotWidth, plotHeight

		for _, name := range names {
			series, err := plot.Sample(sc, name, 0, sc.Frames)
			if err != nil {
				return err
			}
			img, err := plot.Render(series, opts)
			if err != nil {
				return fmt.Errorf("plotting %s: %w", name, err)
			}

			out := filepath.Join(dir, chartFileName(name))
			f, err := createOutput(out)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			err = plot.WritePNG(f, img)
			f.Close()
			if err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("[>] Ready: %s\n", out)
		}

		log.Printf("[+++] Успех! %d графиков в %s", len(names), dir)
		return nil
	},
}

// chartFileName makes a property name safe to use as a file name.
func chartFileName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return r.Replace(name) + ".png"
}

func init() {
	plotCmd.Flags().StringSliceVarP(&plotProperties, "property", "p", nil, "properties to chart (default: all)")
	plotCmd.Flags().StringVarP(&plotOutputDir, "output", "o", "", "output directory (default: <output_dir>/<scene>_plots)")
	plotCmd.Flags().IntVar(&plotWidth, "width", plot.DefaultOptions.Width, "chart width")
	plotCmd.Flags().IntVar(&plotHeight, "height", plot.DefaultOptions.Height, "chart height")
	rootCmd.AddCommand(plotCmd)
}
