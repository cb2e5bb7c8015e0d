package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Dir          string `toml:"dir"`
	File         string `toml:"file"`
	Watch        *bool  `toml:"watch"`
	Workers      int    `toml:"workers"`
	Debounce     string `toml:"debounce"`
	PreviewBytes int    `toml:"preview_bytes"`
	LogLevel     string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.mirrordump/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mirrordump", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dir", fc.Dir, &cfg.Dir)
	s.setString("file", fc.File, &cfg.File)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setBool("watch", fc.Watch, &cfg.Watch)

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("preview-bytes", fc.PreviewBytes, &cfg.PreviewBytes)

	return s.setDuration("debounce", fc.Debounce, &cfg.Debounce)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
