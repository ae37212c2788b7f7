// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ik5/audreact/analysis"
	"github.com/ik5/audreact/media"
)

// Config represents the audreact configuration file
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Render   RenderConfig   `toml:"render"`
	Logging  LoggingConfig  `toml:"logging"`
	Tracks   []TrackConfig  `toml:"tracks"`
}

// PipelineConfig mirrors media.Config
type PipelineConfig struct {
	SampleRate  int     `toml:"sample_rate"`
	FFTSize     int     `toml:"fft_size"`
	Smoothing   float64 `toml:"smoothing"`
	MinDecibels float64 `toml:"min_decibels"`
	MaxDecibels float64 `toml:"max_decibels"`
}

// RenderConfig controls the terminal renderer and calibration sampling
type RenderConfig struct {
	FrameRate int  `toml:"frame_rate"`
	Clamp     bool `toml:"clamp"`
	Bands     int  `toml:"bands"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// TrackConfig holds known calibration bounds of one track
type TrackConfig struct {
	Name     string  `toml:"name"`
	Path     string  `toml:"path"`
	MinPower float64 `toml:"min_power"`
	MaxPower float64 `toml:"max_power"`
}

func (t TrackConfig) Bounds() analysis.Bounds {
	return analysis.Bounds{Min: t.MinPower, Max: t.MaxPower}
}

// Calibrated reports whether the bounds describe a usable range.
func (t TrackConfig) Calibrated() bool { return t.MaxPower > t.MinPower }

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	m := media.DefaultConfig()

	return &Config{
		Pipeline: PipelineConfig{
			SampleRate:  m.SampleRate,
			FFTSize:     m.FFTSize,
			Smoothing:   m.Smoothing,
			MinDecibels: m.MinDecibels,
			MaxDecibels: m.MaxDecibels,
		},
		Render: RenderConfig{
			FrameRate: 60,
			Clamp:     true,
			Bands:     24,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// Media converts the pipeline section
func (p PipelineConfig) Media() media.Config {
	return media.Config{
		SampleRate:  p.SampleRate,
		FFTSize:     p.FFTSize,
		Smoothing:   p.Smoothing,
		MinDecibels: p.MinDecibels,
		MaxDecibels: p.MaxDecibels,
	}
}

// LoadConfig loads configuration from a TOML file, creating it with
// defaults when missing. Environment overrides from EnvFile are applied
// before validation.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Created default configuration file at: %s\n", configPath)
	} else if err := decodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(EnvFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ReadConfig loads an existing file without creating it or applying
// environment overrides.
func ReadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeFile(configPath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func decodeFile(configPath string, cfg *Config) error {
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# audreact configuration
# [[tracks]] entries hold bounds measured by "audreact calibrate" so a track
# can be rendered without a calibration pass.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Pipeline.Media().Validate(); err != nil {
		return err
	}

	if c.Render.FrameRate < 1 || c.Render.FrameRate > 1000 {
		return fmt.Errorf("render frame rate must be between 1 and 1000, got %d", c.Render.FrameRate)
	}
	if c.Render.Bands < 1 {
		return fmt.Errorf("render bands must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	for i, t := range c.Tracks {
		if t.Path == "" && t.Name == "" {
			return fmt.Errorf("track %d needs a path or a name", i)
		}
		if t.MaxPower < t.MinPower {
			return fmt.Errorf("track %q max_power %v below min_power %v", t.key(), t.MaxPower, t.MinPower)
		}
	}

	return nil
}

func (t TrackConfig) key() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Name
}

// Track finds the entry whose path or name matches key. Paths are compared
// by base name when the full path does not match.
func (c *Config) Track(key string) (TrackConfig, bool) {
	for _, t := range c.Tracks {
		if t.Path == key || (t.Name != "" && t.Name == key) {
			return t, true
		}
	}
	for _, t := range c.Tracks {
		if t.Path != "" && filepath.Base(t.Path) == filepath.Base(key) {
			return t, true
		}
	}
	return TrackConfig{}, false
}

// SetTrack adds t or replaces the entry with the same path.
func (c *Config) SetTrack(t TrackConfig) {
	for i := range c.Tracks {
		if c.Tracks[i].key() == t.key() {
			c.Tracks[i] = t
			return
		}
	}
	c.Tracks = append(c.Tracks, t)
}
