package config

import (
	"os"
	"testing"
)

func TestDefaultMatchesSpecBaseline(t *testing.T) {
	cfg := Default()
	if !cfg.UinputMouse || !cfg.UinputKeyboard || !cfg.UinputTouch {
		t.Fatal("all three uinput devices should default to enabled")
	}
	if cfg.PageFlipKeepAliveSeconds != 600 {
		t.Fatalf("keep-alive default = %d, want 600", cfg.PageFlipKeepAliveSeconds)
	}
	if got := cfg.KeepAlive().Seconds(); got != 600 {
		t.Fatalf("KeepAlive() = %vs, want 600s", got)
	}
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	os.Setenv("QAD_SCREEN_BACKEND", "ilm")
	defer os.Unsetenv("QAD_SCREEN_BACKEND")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScreenBackend != "ilm" {
		t.Fatalf("ScreenBackend = %q, want %q (env override)", cfg.ScreenBackend, "ilm")
	}
}

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/qad-fixture.yaml"); err == nil {
		t.Fatal("expected an error for an explicit but unreadable config file path")
	}
}

func TestLoadWithNoConfigFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no file on the search path should not error: %v", err)
	}
	if len(cfg.DRMCardGlobs) == 0 {
		t.Fatal("expected default DRM card globs to survive an absent config file")
	}
}
