package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "redact.config.yml"

	envEndpoint  = "REDACT_DETECT_ENDPOINT"
	envAPIKey    = "REDACT_DETECT_API_KEY"
	envFillColor = "REDACT_FILL_COLOR"
	envOpacity   = "REDACT_FILL_OPACITY"
	envMode      = "REDACT_MODE"
	envOutputDir = "REDACT_OUTPUT_DIR"
)

// Loader merges configuration coming from a YAML file, environment
// variables, and CLI flags, in that order of increasing precedence.
type Loader struct {
	ConfigPath string
}

// Runtime contains the fully merged settings.
type Runtime struct {
	DetectEndpoint  string
	DetectAPIKey    string
	FillColor       string
	FillOpacity     float64
	Mode            string
	OutputDir       string
	PreviewMaxWidth int
}

// Overrides captures values coming from env vars or CLI flags. Pointer
// fields distinguish "not set" from a zero value.
type Overrides struct {
	DetectEndpoint  string
	DetectAPIKey    string
	FillColor       string
	FillOpacity     *float64
	Mode            string
	OutputDir       string
	PreviewMaxWidth *int
}

// DefaultRuntime returns the baseline configuration: opaque black fill,
// artifacts written to the working directory.
func DefaultRuntime() Runtime {
	return Runtime{
		FillColor:       "#000000",
		FillOpacity:     1.0,
		Mode:            "fill",
		OutputDir:       ".",
		PreviewMaxWidth: 1024,
	}
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (Runtime, error) {
	cfg := DefaultRuntime()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.apply(fileOv)
	}

	cfg.apply(overridesFromEnv())
	cfg.apply(override)

	return cfg, nil
}

func (c *Runtime) apply(src Overrides) {
	if src.DetectEndpoint != "" {
		c.DetectEndpoint = src.DetectEndpoint
	}
	if src.DetectAPIKey != "" {
		c.DetectAPIKey = src.DetectAPIKey
	}
	if src.FillColor != "" {
		c.FillColor = src.FillColor
	}
	if src.FillOpacity != nil {
		c.FillOpacity = *src.FillOpacity
	}
	if src.Mode != "" {
		c.Mode = src.Mode
	}
	if src.OutputDir != "" {
		c.OutputDir = src.OutputDir
	}
	if src.PreviewMaxWidth != nil {
		c.PreviewMaxWidth = *src.PreviewMaxWidth
	}
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, err
	}

	type rawConfig struct {
		DetectEndpoint  string   `yaml:"detectEndpoint"`
		DetectAPIKey    string   `yaml:"detectApiKey"`
		FillColor       string   `yaml:"fillColor"`
		FillOpacity     *float64 `yaml:"fillOpacity"`
		Mode            string   `yaml:"mode"`
		OutputDir       string   `yaml:"outputDir"`
		PreviewMaxWidth *int     `yaml:"previewMaxWidth"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return Overrides{
		DetectEndpoint:  raw.DetectEndpoint,
		DetectAPIKey:    raw.DetectAPIKey,
		FillColor:       raw.FillColor,
		FillOpacity:     raw.FillOpacity,
		Mode:            raw.Mode,
		OutputDir:       raw.OutputDir,
		PreviewMaxWidth: raw.PreviewMaxWidth,
	}, nil
}

func overridesFromEnv() Overrides {
	ov := Overrides{
		DetectEndpoint: os.Getenv(envEndpoint),
		DetectAPIKey:   os.Getenv(envAPIKey),
		FillColor:      os.Getenv(envFillColor),
		Mode:           os.Getenv(envMode),
		OutputDir:      os.Getenv(envOutputDir),
	}

	if value := os.Getenv(envOpacity); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			ov.FillOpacity = &parsed
		}
	}

	return ov
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
