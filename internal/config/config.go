package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FPS          float64 `yaml:"fps"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Workers      int     `yaml:"workers"`
	ScenesDir    string  `yaml:"scenes_dir"`
	OutputDir    string  `yaml:"output_dir"`
	ShowStats    bool    `yaml:"show_stats"`
	Mqtt         Mqtt    `yaml:"mqtt"`
	BuildVersion string  `yaml:"-"`
}

// Mqtt configures frame-state streaming.
type Mqtt struct {
	URL         string `yaml:"url"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"` // 0, 1 or 2
}

// Default returns the configuration used when no file is given.
// Workers = 0 means one worker per logical CPU.
func Default() Config {
	return Config{
		FPS:       30,
		Width:     1920,
		Height:    1080,
		ScenesDir: "scenes",
		OutputDir: "output",
		Mqtt: Mqtt{
			URL:         "tcp://localhost:1883",
			ClientID:    "scenetime",
			TopicPrefix: "scenetime",
		},
	}
}

// Load reads a YAML config file on top of Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Mqtt.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.Mqtt.QoS)
	}
	return nil
}
