package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MIRRORDUMP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dir", os.Getenv("MIRRORDUMP_DIR"), &cfg.Dir)
	s.setString("file", os.Getenv("MIRRORDUMP_FILE"), &cfg.File)
	s.setString("log-level", os.Getenv("MIRRORDUMP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("workers", os.Getenv("MIRRORDUMP_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("preview-bytes", os.Getenv("MIRRORDUMP_PREVIEW_BYTES"), &cfg.PreviewBytes); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("MIRRORDUMP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("MIRRORDUMP_WATCH"), &cfg.Watch)

	return nil
}
