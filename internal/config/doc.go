// Package config provides configuration management for exif-batch.
//
// Settings are stored as JSON. Load returns defaults when the file
// does not exist:
//
//	settings, err := config.Load("~/.config/exif-batch/settings.json")
//
// DefaultSettings gives a 16-file batch size, one worker per CPU, the
// standard raster image extensions, and thumbnail export disabled.
package config
