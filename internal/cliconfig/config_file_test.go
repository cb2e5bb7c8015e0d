package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
dir = "/captures"
watch = true
workers = 8
debounce = "250ms"
preview_bytes = 16
log_level = "debug"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.Dir != "/captures" {
		t.Fatalf("Dir = %q", fc.Dir)
	}
	if fc.Watch == nil || !*fc.Watch {
		t.Fatalf("Watch = %v, want true", fc.Watch)
	}
	if fc.Workers != 8 {
		t.Fatalf("Workers = %d", fc.Workers)
	}
}

func TestLoadFileConfigRejectsBadTOML(t *testing.T) {
	path := writeConfigFile(t, `dir = [broken`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyFileConfig(t *testing.T) {
	watch := true
	fc := FileConfig{
		Dir:      "/from-file",
		Watch:    &watch,
		Workers:  8,
		Debounce: "250ms",
		LogLevel: "debug",
	}

	t.Run("applies values", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
			t.Fatalf("ApplyFileConfig: %v", err)
		}
		if cfg.Dir != "/from-file" || !cfg.Watch || cfg.Workers != 8 {
			t.Fatalf("file config not applied: %+v", cfg)
		}
		if cfg.Debounce != 250*time.Millisecond {
			t.Fatalf("Debounce = %v, want 250ms", cfg.Debounce)
		}
	})

	t.Run("respects changed flags", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dir = "/from-flag"
		changed := map[string]bool{"dir": true, "workers": true}
		if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
			t.Fatalf("ApplyFileConfig: %v", err)
		}
		if cfg.Dir != "/from-flag" {
			t.Fatalf("flag value overridden: %q", cfg.Dir)
		}
		if cfg.Workers != 4 {
			t.Fatalf("flag-set workers overridden: %d", cfg.Workers)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("unflagged value not applied: %q", cfg.LogLevel)
		}
	})

	t.Run("rejects bad duration", func(t *testing.T) {
		cfg := DefaultConfig()
		bad := fc
		bad.Debounce = "soon"
		if err := ApplyFileConfig(&cfg, bad, map[string]bool{}); err == nil {
			t.Fatalf("expected duration parse error")
		}
	})
}
