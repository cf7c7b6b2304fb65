package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scene.yaml...]",
	Short: "Check scene files without evaluating them",
	Long:  "Compile each scene file and report errors and authoring warnings such as overlapping captions or camera moves.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			path, err := resolveScene(nil)
			if err != nil {
				return err
			}
			args = []string{path}
		}

		failed := 0
		for _, path := range args {
			sc, err := loadScene(cmd, path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "[-] %s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[*] %s: %s, %d frames @ %.2f FPS, %d captions, %d warnings\n",
				path, sc.ID, sc.Frames, sc.FPS, sc.Captions.Len(), len(sc.Warnings()))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d scenes are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
