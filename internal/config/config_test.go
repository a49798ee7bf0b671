package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camdedup.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Action != model.ActionMove {
		t.Errorf("Expected default action move, got %q", cfg.Action)
	}
	if cfg.Tiers.High.SimilarityThreshold != 2000 || len(cfg.Tiers.High.Kernels) != 3 {
		t.Errorf("Unexpected high tier defaults %+v", cfg.Tiers.High)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
image_dir = "/srv/frames"
action = "remove"
extensions = ["PNG", "jpg"]

[mask]
top = 12.5

[tiers.low]
similarity_threshold = 650
`)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ImageDirectory != "/srv/frames" || cfg.Action != model.ActionRemove {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".png" || cfg.Extensions[1] != ".jpg" {
		t.Errorf("Extensions not normalized: %v", cfg.Extensions)
	}
	if cfg.Mask.Top != 12.5 || cfg.Mask.Left != 5 {
		t.Errorf("Expected top override with default left, got %+v", cfg.Mask)
	}
	if cfg.Tiers.Low.SimilarityThreshold != 650 || cfg.Tiers.Low.MinRegionFraction != 0.00025 {
		t.Errorf("Expected partial tier override, got %+v", cfg.Tiers.Low)
	}
	if cfg.LogLevel != "debug" || !cfg.DryRun {
		t.Errorf("Environment overrides not applied: level=%q dry=%v", cfg.LogLevel, cfg.DryRun)
	}
}

func TestLoad_EnvActionWins(t *testing.T) {
	path := writeConfig(t, `action = "move"`)
	t.Setenv("DEDUP_ACTION", "REMOVE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Action != model.ActionRemove {
		t.Errorf("Expected env action remove, got %q", cfg.Action)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for an explicit config path that does not exist")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	path := writeConfig(t, `action = `)
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown action", func(c *Config) { c.Action = "archive" }, true},
		{"empty directory", func(c *Config) { c.ImageDirectory = " " }, true},
		{"no extensions", func(c *Config) { c.Extensions = []string{" "} }, true},
		{"negative mask", func(c *Config) { c.Mask.Left = -1 }, true},
		{"mask covers width", func(c *Config) { c.Mask.Left, c.Mask.Right = 50, 50 }, true},
		{"mask covers height", func(c *Config) { c.Mask.Top, c.Mask.Bottom = 60, 40 }, true},
		{"even kernel", func(c *Config) { c.Tiers.Mid.Kernels = []int{3, 4} }, true},
		{"zero kernel", func(c *Config) { c.Tiers.Low.Kernels = []int{0} }, true},
		{"no kernels", func(c *Config) { c.Tiers.Low.Kernels = nil }, false},
		{"negative fraction", func(c *Config) { c.Tiers.High.MinRegionFraction = -0.1 }, true},
		{"zero threshold", func(c *Config) { c.Tiers.High.SimilarityThreshold = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownActionIsSentinel(t *testing.T) {
	cfg := Default()
	cfg.Action = "archive"
	if err := cfg.Validate(); !errors.Is(err, model.ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
}
