package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/scenetime/internal/caption"
)

var captionsOutput string

var captionsCmd = &cobra.Command{
	Use:   "captions [scene.yaml | scene_timed.json]",
	Short: "Export scene captions as SRT",
	Long:  "Export the caption track of a scene file or a timed caption JSON file as SRT subtitles.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveScene(args)
		if err != nil {
			return err
		}

		var track *caption.Track
		if isTimedJSON(path) {
			track, _, err = caption.LoadTimed(path)
			if err == nil {
				reportOverlaps(path, track)
			}
		} else {
			sc, lerr := loadScene(cmd, path)
			if lerr == nil {
				track = sc.Captions
			}
			err = lerr
		}
		if err != nil {
			return err
		}
		if track.Len() == 0 {
			return fmt.Errorf("%s has no captions", path)
		}

		f, err := createOutput(captionsOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if f != os.Stdout {
			defer f.Close()
		}
		if err := caption.WriteSRT(f, track); err != nil {
			return fmt.Errorf("writing srt: %w", err)
		}

		if f != os.Stdout {
			log.Printf("[+++] Успех! %d субтитров: %s", track.Len(), captionsOutput)
		}
		return nil
	},
}

// reportOverlaps logs caption pairs that overlap; the earlier one is shown.
func reportOverlaps(path string, track *caption.Track) {
	all := track.Intervals()
	for _, p := range track.Overlaps() {
		log.Printf("[!] %s: captions %d (%q) and %d (%q) overlap; the first one wins",
			path, p[0]+1, all[p[0]].Text, p[1]+1, all[p[1]].Text)
	}
}

func isTimedJSON(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func init() {
	captionsCmd.Flags().StringVarP(&captionsOutput, "output", "o", "-", "SRT output file, - for stdout")
	rootCmd.AddCommand(captionsCmd)
}
