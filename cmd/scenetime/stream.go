package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivlev/scenetime/internal/publish"
)

var (
	streamLoop bool
	streamFrom int
	streamTo   int
)

var streamCmd = &cobra.Command{
	Use:   "stream [scene.yaml]",
	Short: "Publish frame states to MQTT in real time",
	Long:  "Evaluate a scene at its frame rate and publish each FrameState as JSON to <topic_prefix>/<scene id>/frame.",
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
		from, to, err := frameRange(sc, streamFrom, streamTo)
		if err != nil {
			return err
		}

		client, err := publish.Connect(cfg.Mqtt)
		if err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		topic := publish.Topic(cfg.Mqtt.TopicPrefix, sc.ID)
		streamer := publish.NewStreamer(client, sc, topic, sc.FPS, to)
		streamer.From = from
		streamer.Loop = streamLoop

		log.Printf("[*] Трансляция %s: кадры [%d, %d) @ %.2f FPS -> %s", sc.ID, from, to, sc.FPS, topic)
		sent, err := streamer.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("streaming: %w", err)
		}

		log.Printf("[+++] Отправлено кадров: %d", sent)
		return nil
	},
}

func init() {
	streamCmd.Flags().BoolVar(&streamLoop, "loop", false, "restart from the first frame instead of stopping")
	streamCmd.Flags().IntVar(&streamFrom, "from", 0, "first frame")
	streamCmd.Flags().IntVar(&streamTo, "to", -1, "end frame, exclusive (-1 = end of scene)")
	rootCmd.AddCommand(streamCmd)
}
