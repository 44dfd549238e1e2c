package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	loader := Loader{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")}

	cfg, err := loader.Load(Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FillColor != "#000000" {
		t.Errorf("FillColor: got %s, want #000000", cfg.FillColor)
	}
	if cfg.FillOpacity != 1.0 {
		t.Errorf("FillOpacity: got %v, want 1.0", cfg.FillOpacity)
	}
	if cfg.Mode != "fill" {
		t.Errorf("Mode: got %s, want fill", cfg.Mode)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir: got %s, want .", cfg.OutputDir)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redact.config.yml")
	content := `
detectEndpoint: https://detect.example.com/v1/regions
fillColor: "#ff0000"
fillOpacity: 0.5
mode: blur
outputDir: exports
previewMaxWidth: 640
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Loader{ConfigPath: path}.Load(Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DetectEndpoint != "https://detect.example.com/v1/regions" {
		t.Errorf("DetectEndpoint: got %s", cfg.DetectEndpoint)
	}
	if cfg.FillColor != "#ff0000" || cfg.FillOpacity != 0.5 || cfg.Mode != "blur" {
		t.Errorf("style settings not applied: %+v", cfg)
	}
	if cfg.OutputDir != "exports" || cfg.PreviewMaxWidth != 640 {
		t.Errorf("output settings not applied: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redact.config.yml")
	if err := os.WriteFile(path, []byte("fillColor: \"#ff0000\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("REDACT_FILL_COLOR", "#00ff00")
	t.Setenv("REDACT_FILL_OPACITY", "0.25")

	cfg, err := Loader{ConfigPath: path}.Load(Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FillColor != "#00ff00" {
		t.Errorf("env should beat file: got %s", cfg.FillColor)
	}
	if cfg.FillOpacity != 0.25 {
		t.Errorf("FillOpacity from env: got %v, want 0.25", cfg.FillOpacity)
	}
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("REDACT_FILL_COLOR", "#00ff00")

	opacity := 0.75
	cfg, err := Loader{ConfigPath: filepath.Join(t.TempDir(), "none.yml")}.Load(Overrides{
		FillColor:   "#0000ff",
		FillOpacity: &opacity,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FillColor != "#0000ff" {
		t.Errorf("flag should beat env: got %s", cfg.FillColor)
	}
	if cfg.FillOpacity != 0.75 {
		t.Errorf("FillOpacity: got %v, want 0.75", cfg.FillOpacity)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("fillColor: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := (Loader{ConfigPath: path}).Load(Overrides{}); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestLoad_ZeroOpacityOverrideIsRespected(t *testing.T) {
	zero := 0.0
	cfg, err := Loader{ConfigPath: filepath.Join(t.TempDir(), "none.yml")}.Load(Overrides{
		FillOpacity: &zero,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FillOpacity != 0 {
		t.Errorf("explicit zero opacity should stick, got %v", cfg.FillOpacity)
	}
}
