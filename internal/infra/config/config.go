// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Player   PlayerConfig   `yaml:"player"`
	Waveform WaveformConfig `yaml:"waveform"`
	Display  DisplayConfig  `yaml:"display"`
	Audio    AudioConfig    `yaml:"audio"`
}

// PlayerConfig represents transport and file selection configuration.
type PlayerConfig struct {
	TickIntervalMs int    `yaml:"tick_interval_ms" default:"200" validate:"gte=10,lte=5000"`
	FilePattern    string `yaml:"file_pattern" default:"*.wav" validate:"required"`
	StartDir       string `yaml:"start_dir" default:"."`
}

// WaveformConfig represents thumbnail configuration.
type WaveformConfig struct {
	Resolution int `yaml:"resolution" default:"512" validate:"gte=1,lte=65536"`
	CacheSize  int `yaml:"cache_size" default:"5" validate:"gte=1,lte=100"`
	Height     int `yaml:"height" default:"8" validate:"gte=1,lte=64"`
}

// DisplayConfig represents terminal layout configuration.
type DisplayConfig struct {
	Width        int `yaml:"width" default:"80" validate:"gte=40,lte=400"`
	PickerHeight int `yaml:"picker_height" default:"10" validate:"gte=3,lte=100"`
}

// AudioConfig represents audio device configuration.
type AudioConfig struct {
	SampleRate int          `yaml:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
	Output     OutputConfig `yaml:"output"`
}

// OutputConfig selects the audio output. Settings are decoded by the output itself.
type OutputConfig struct {
	Type     string         `yaml:"type" default:"speaker" validate:"oneof=speaker null"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// An empty path yields the defaults.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("WAVBOX_START_DIR"); v != "" {
		c.Player.StartDir = v
	}
	if v := os.Getenv("WAVBOX_OUTPUT"); v != "" {
		c.Audio.Output.Type = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if _, err := filepath.Match(c.Player.FilePattern, "track.wav"); err != nil {
		return errors.Wrapf(err, "invalid file_pattern %q", c.Player.FilePattern)
	}

	return nil
}

// TickInterval returns the cursor refresh period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Player.TickIntervalMs) * time.Millisecond
}
