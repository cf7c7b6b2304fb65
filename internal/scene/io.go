package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteScene writes a scene to a YAML file
func WriteScene(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScene reads a scene from a YAML file
func ReadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &s, nil
}

// Load reads and compiles a scene file. captions_file is resolved next to it.
func Load(path string) (*Compiled, error) {
	s, err := ReadScene(path)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Compile(s, filepath.Dir(path))
}

// OutputPath creates a timestamped output filename for a scene
func OutputPath(dir, sceneID, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", sceneID, timestamp, ext))
}

// FindLatest finds the most recently modified scene file in dir.
// Entries that cannot be stat'ed, such as dangling symlinks, are skipped.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenes directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest, latestMod = path, info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}
	return latest, nil
}
