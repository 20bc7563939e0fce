package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5175" || cfg.TurnSeconds != 25 || cfg.DisplayDelay != 1200*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DictionaryMode != DictionaryAPI || cfg.StartLetter != LetterRandom {
		t.Fatalf("unexpected mode defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TURN_SECONDS", "30")
	t.Setenv("DISPLAY_DELAY", "2s")
	t.Setenv("DICTIONARY_MODE", "list")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TurnSeconds != 30 || cfg.DisplayDelay != 2*time.Second || cfg.DictionaryMode != DictionaryList {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("START_LETTER=daily\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("START_LETTER", "")
	os.Unsetenv("START_LETTER")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StartLetter != LetterDaily {
		t.Fatalf("expected .env value, got %q", cfg.StartLetter)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"TURN_SECONDS", "not-an-int", "parse env:"},
		{"DICTIONARY_MODE", "oracle", "DICTIONARY_MODE"},
		{"START_LETTER", "always-z", "START_LETTER"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
	t.Run("zero turn", func(t *testing.T) {
		t.Setenv("TURN_SECONDS", "0")
		if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Fatal("expected error for zero turn length")
		}
	})
}
