// Package config loads unistroke settings from a YAML file and applies
// runtime overrides stored as key/value strings.
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/unistroke/internal/gesture"
)

var (
	// ErrUnknownSetting is returned when an override key is not recognised.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue is returned when an override value cannot be converted.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Setting keys that may be overridden at runtime.
const (
	KeyNumPoints         = "recognizer.num_points"
	KeySquareSize        = "recognizer.square_size"
	KeyAngleRangeDeg     = "recognizer.angle_range_deg"
	KeyAnglePrecisionDeg = "recognizer.angle_precision_deg"
)

// Config holds the application configuration.
type Config struct {
	Addr       string           `yaml:"addr"`
	DataDir    string           `yaml:"data_dir"`
	WebDir     string           `yaml:"web_dir"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Preview    PreviewConfig    `yaml:"preview"`
	Stroke     StrokeConfig     `yaml:"stroke"`
	Hooks      HooksConfig      `yaml:"hooks"`
}

// RecognizerConfig holds the normalization and search parameters.
type RecognizerConfig struct {
	NumPoints         int     `yaml:"num_points"`
	SquareSize        float64 `yaml:"square_size"`
	AngleRangeDeg     float64 `yaml:"angle_range_deg"`
	AnglePrecisionDeg float64 `yaml:"angle_precision_deg"`
}

// PreviewConfig controls rendered template previews.
type PreviewConfig struct {
	Size      int           `yaml:"size"`
	Thickness int           `yaml:"thickness"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// StrokeConfig controls live stroke capture sessions.
type StrokeConfig struct {
	MaxPoints int `yaml:"max_points"`
}

// HooksConfig controls the programs run when a live stroke is recognized.
type HooksConfig struct {
	Dir     string        `yaml:"dir"` // Defaults to <data_dir>/hooks
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Addr:    ":8080",
		DataDir: defaultDataDir(),
		Recognizer: RecognizerConfig{
			NumPoints:         gesture.DefaultNumPoints,
			SquareSize:        gesture.DefaultSquareSize,
			AngleRangeDeg:     45,
			AnglePrecisionDeg: 2,
		},
		Preview: PreviewConfig{
			Size:      256,
			Thickness: 4,
			CacheTTL:  10 * time.Minute,
		},
		Stroke: StrokeConfig{
			MaxPoints: 2048,
		},
		Hooks: HooksConfig{
			Timeout: 5 * time.Second,
		},
	}
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".unistroke"
	}
	return filepath.Join(homeDir, ".unistroke")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// HooksDir returns the hook directory, defaulting to <data_dir>/hooks.
func (c *Config) HooksDir() string {
	if c.Hooks.Dir != "" {
		return c.Hooks.Dir
	}
	return filepath.Join(c.DataDir, "hooks")
}

// DBPath returns the sqlite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "unistroke.db")
}

// Load reads the config file at path. A missing file is created with the
// default configuration. Invalid values fall back to their defaults.
func Load(path string) (*Config, error) {
	defaults := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Creating default config file at %s", path)
			if err := Save(path, defaults); err != nil {
				log.Printf("Failed to create default config file: %v", err)
			}
			return defaults, nil
		}
		return nil, err
	}

	// Check for unrecognised top-level keys
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	known := map[string]bool{"addr": true, "data_dir": true, "web_dir": true, "recognizer": true, "preview": true, "stroke": true, "hooks": true}
	for key := range raw {
		if !known[key] {
			log.Printf("Warning: unrecognised config key '%s' in %s", key, path)
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.sanitize(defaults)
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// sanitize replaces out-of-range values with their defaults.
func (c *Config) sanitize(defaults *Config) {
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}
	if err := c.RecognizerOptions().Validate(); err != nil {
		log.Printf("Invalid recognizer settings (%v), using defaults", err)
		c.Recognizer = defaults.Recognizer
	}
	if c.Preview.Size < 16 {
		log.Printf("Invalid preview size %d, using default %d", c.Preview.Size, defaults.Preview.Size)
		c.Preview.Size = defaults.Preview.Size
	}
	if c.Preview.Thickness < 1 {
		c.Preview.Thickness = defaults.Preview.Thickness
	}
	if c.Preview.CacheTTL <= 0 {
		c.Preview.CacheTTL = defaults.Preview.CacheTTL
	}
	if c.Hooks.Timeout <= 0 {
		c.Hooks.Timeout = defaults.Hooks.Timeout
	}
	if c.Stroke.MaxPoints < 2 {
		log.Printf("Invalid stroke max_points %d, using default %d", c.Stroke.MaxPoints, defaults.Stroke.MaxPoints)
		c.Stroke.MaxPoints = defaults.Stroke.MaxPoints
	}
}

// RecognizerOptions converts the recognizer settings to gesture.Options.
func (c *Config) RecognizerOptions() gesture.Options {
	return gesture.Options{
		NumPoints:      c.Recognizer.NumPoints,
		SquareSize:     c.Recognizer.SquareSize,
		AngleRange:     c.Recognizer.AngleRangeDeg * math.Pi / 180,
		AnglePrecision: c.Recognizer.AnglePrecisionDeg * math.Pi / 180,
	}
}

// SettingKeys returns the keys accepted by ApplySettings, sorted.
func SettingKeys() []string {
	keys := []string{KeyNumPoints, KeySquareSize, KeyAngleRangeDeg, KeyAnglePrecisionDeg}
	sort.Strings(keys)
	return keys
}

// ApplySettings returns a copy of c with the string overrides applied.
// The result is validated as a whole; c is never modified.
func (c *Config) ApplySettings(settings map[string]string) (*Config, error) {
	out := *c
	for key, value := range settings {
		var err error
		switch key {
		case KeyNumPoints:
			out.Recognizer.NumPoints, err = cast.ToIntE(value)
		case KeySquareSize:
			out.Recognizer.SquareSize, err = cast.ToFloat64E(value)
		case KeyAngleRangeDeg:
			out.Recognizer.AngleRangeDeg, err = cast.ToFloat64E(value)
		case KeyAnglePrecisionDeg:
			out.Recognizer.AnglePrecisionDeg, err = cast.ToFloat64E(value)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}
		if err != nil {
			return nil, fmt.Errorf("%w %q for %s: %v", ErrInvalidValue, value, key, err)
		}
	}

	if err := out.RecognizerOptions().Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
