package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Run("applies all valid env vars", func(t *testing.T) {
		t.Setenv("MIRRORDUMP_DIR", "/env/captures")
		t.Setenv("MIRRORDUMP_WATCH", "true")
		t.Setenv("MIRRORDUMP_WORKERS", "16")
		t.Setenv("MIRRORDUMP_DEBOUNCE", "2s")
		t.Setenv("MIRRORDUMP_PREVIEW_BYTES", "64")
		t.Setenv("MIRRORDUMP_LOG_LEVEL", "warn")

		cfg := DefaultConfig()
		if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
			t.Fatalf("ApplyEnvConfig: %v", err)
		}

		if cfg.Dir != "/env/captures" || !cfg.Watch || cfg.Workers != 16 {
			t.Fatalf("env not applied: %+v", cfg)
		}
		if cfg.Debounce != 2*time.Second {
			t.Fatalf("Debounce = %v, want 2s", cfg.Debounce)
		}
		if cfg.PreviewBytes != 64 {
			t.Fatalf("PreviewBytes = %d, want 64", cfg.PreviewBytes)
		}
		if cfg.LogLevel != "warn" {
			t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
		}
	})

	t.Run("respects changed flags", func(t *testing.T) {
		t.Setenv("MIRRORDUMP_DIR", "/env/captures")
		t.Setenv("MIRRORDUMP_WORKERS", "16")

		cfg := DefaultConfig()
		cfg.Dir = "/flag/captures"
		changed := map[string]bool{"dir": true}
		if err := ApplyEnvConfig(&cfg, changed); err != nil {
			t.Fatalf("ApplyEnvConfig: %v", err)
		}
		if cfg.Dir != "/flag/captures" {
			t.Fatalf("flag value overridden: %q", cfg.Dir)
		}
		if cfg.Workers != 16 {
			t.Fatalf("unflagged env value not applied: %d", cfg.Workers)
		}
	})

	t.Run("returns error for invalid duration", func(t *testing.T) {
		t.Setenv("MIRRORDUMP_DEBOUNCE", "not-a-duration")
		cfg := DefaultConfig()
		if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("returns error for invalid int", func(t *testing.T) {
		t.Setenv("MIRRORDUMP_WORKERS", "not-a-number")
		cfg := DefaultConfig()
		if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
			t.Fatalf("expected error")
		}
	})
}
