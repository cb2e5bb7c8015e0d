// Package cliconfig holds configuration handling for the mirrordump CLI:
// defaults, validation, TOML config files and environment overrides, with
// explicit flags taking precedence over both.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for mirrordump.
type Config struct {
	// Dir is the capture directory to decode or watch.
	Dir string

	// File decodes a single capture file instead of a directory.
	File string

	// Watch keeps running and decodes captures as they appear in Dir.
	Watch bool

	// Workers bounds concurrent decodes in directory mode.
	Workers int

	// Debounce is how long a capture file must sit unchanged before watch
	// mode decodes it.
	Debounce time.Duration

	// PreviewBytes is how many payload bytes to hex-dump per batch.
	PreviewBytes int

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		Debounce:     100 * time.Millisecond,
		PreviewBytes: 32,
		LogLevel:     "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Dir == "" && c.File == "" {
		return fmt.Errorf("dir or file is required")
	}
	if c.Watch && c.Dir == "" {
		return fmt.Errorf("watch requires dir")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if c.PreviewBytes < 0 {
		return fmt.Errorf("preview-bytes must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("parse log-level: %w", err)
	}
	return nil
}

// Logger builds the CLI's zerolog console logger at the configured level.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
