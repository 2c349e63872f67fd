// Package config loads optional host-side bridge settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the optional viewbridge.yaml configuration.
type Config struct {
	Placeholder PlaceholderConfig `yaml:"placeholder"`
	Animation   AnimationConfig   `yaml:"animation"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PlaceholderConfig controls the diagnostic placeholder rendered for
// unknown view variants and failed subtrees.
type PlaceholderConfig struct {
	// Label enables rasterizing a diagnostic label into the placeholder.
	Label bool `yaml:"label"`
	// LabelPrefix prefixes the rendered diagnostic text.
	LabelPrefix string `yaml:"label_prefix,omitempty"`
}

// AnimationConfig contains interpolation defaults.
type AnimationConfig struct {
	// DefaultDuration is used when curve metadata arrives without a
	// duration.
	DefaultDuration Duration `yaml:"default_duration,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings such as
// "250ms" or "1.5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// LoggingConfig contains error-reporting settings.
type LoggingConfig struct {
	// Verbose includes stack traces in reported errors.
	Verbose bool `yaml:"verbose"`
	// Development switches the zap logger to development mode.
	Development bool `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Placeholder: PlaceholderConfig{Label: true, LabelPrefix: "unrendered: "},
		Animation:   AnimationConfig{DefaultDuration: Duration(200 * time.Millisecond)},
	}
}

// Load parses a configuration from r, starting from defaults. Unknown
// keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to parse bridge config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFile reads viewbridge.yaml from path. A missing file yields the
// defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(bytes.NewReader(data))
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Animation.DefaultDuration < 0 {
		return fmt.Errorf("animation.default_duration must not be negative, got %s", c.Animation.DefaultDuration)
	}
	return nil
}
