package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Batch settings
	BatchSize int `json:"batch_size"`
	Workers   int `json:"workers"` // 0 means one worker per CPU

	// Extensions is the case-insensitive allow-list of image file
	// extensions eligible for processing.
	Extensions []string `json:"extensions"`

	// Thumbnail export settings
	SaveThumbnails   bool   `json:"save_thumbnails"`
	ThumbnailsPath   string `json:"thumbnails_path"`
	ThumbnailMaxSize int    `json:"thumbnail_max_size"` // pixels, 0 = keep original size

	// Output settings
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		BatchSize:  16,
		Workers:    0,
		Extensions: []string{".jpg", ".jpeg", ".png"},

		SaveThumbnails:   false,
		ThumbnailsPath:   filepath.Join(homeDir, "Pictures", "exif-batch", "thumbnails"),
		ThumbnailMaxSize: 160,

		Verbose: false,
	}
}

// Load reads settings from a JSON file. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
