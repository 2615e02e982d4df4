// Package config loads synthseer configuration from a YAML file, overlaying
// it on built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the synthseer configuration.
type Config struct {
	// Endpoint is the scoring service base URL; the material code is
	// appended as the final path segment.
	Endpoint string `yaml:"endpoint"`

	// MaterialCodes overrides the built-in material to model-code mapping.
	MaterialCodes map[string]string `yaml:"material_codes,omitempty"`

	// OnTransportFailure is "simulate" or "fail".
	OnTransportFailure string `yaml:"on_transport_failure"`

	Storage StorageConfig `yaml:"storage"`

	// PageSize is the history page size.
	PageSize int `yaml:"page_size"`
}

// StorageConfig selects and parameterizes the durable slot.
type StorageConfig struct {
	Backend   string `yaml:"backend"`             // file or sqlite
	Path      string `yaml:"path"`                // file path or database path
	Retention string `yaml:"retention,omitempty"` // e.g. 30d; empty keeps forever
	MaxBytes  int    `yaml:"max_bytes,omitempty"` // slot capacity; 0 is unlimited
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Endpoint:           "http://localhost:8501/predict",
		OnTransportFailure: "simulate",
		Storage: StorageConfig{
			Backend:   BackendFile,
			Path:      filepath.Join(home, ".synthseer", "history.json"),
			Retention: "30d",
		},
		PageSize: 10,
	}
}

// Load reads path and overlays it on the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.OnTransportFailure {
	case "simulate", "fail":
	default:
		return fmt.Errorf("on_transport_failure must be simulate or fail, got %q", c.OnTransportFailure)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage backend must be file or sqlite, got %q", c.Storage.Backend)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	for m := range c.MaterialCodes {
		if !model.Material(m).Valid() {
			return fmt.Errorf("material_codes: unknown material %q", m)
		}
	}
	if _, err := parseWindow(c.Storage.Retention); err != nil {
		return fmt.Errorf("storage retention: %w", err)
	}
	return nil
}

// Codes returns the material to model-code mapping, or nil when the config
// does not override it.
func (c *Config) Codes() map[model.Material]string {
	if len(c.MaterialCodes) == 0 {
		return nil
	}
	codes := make(map[model.Material]string, len(c.MaterialCodes))
	for m, code := range c.MaterialCodes {
		codes[model.Material(m)] = code
	}
	return codes
}

// RetentionWindow parses the retention string into a duration. Zero means
// keep forever.
func (c *Config) RetentionWindow() (time.Duration, error) {
	return parseWindow(c.Storage.Retention)
}

var windowRegex = regexp.MustCompile(`^(\d+)([dhms])$`)

// parseWindow parses a window string like "30d", "24h", "15m", "60s".
func parseWindow(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	m := windowRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid format %q (use e.g. 30d, 24h, 15m, 60s)", s)
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "s":
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("unknown unit %q", m[2])
}
