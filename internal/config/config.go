// Package config defines passnet configuration and its loading layers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pable/go-passnet/internal/network"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// DBPath is the SQLite pass-log store.
	DBPath string `koanf:"db_path"`

	// Addr configures the HTTP listen address of `passnet serve`.
	Addr string `koanf:"addr"`

	// RosterSize is N in the centralization and density formulas.
	RosterSize int `koanf:"roster_size"`

	// MinPairPassCount drops rendered undirected pairs below this count.
	MinPairPassCount int `koanf:"min_pair_pass_count"`

	// MarkerMax, LineMax and ArrowMax scale node markers, edge lines and arrows.
	MarkerMax float64 `koanf:"marker_max"`
	LineMax   float64 `koanf:"line_max"`
	ArrowMax  float64 `koanf:"arrow_max"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		DBPath:           filepath.Join(userHome(), ".passnet", "passnet.db"),
		Addr:             ":9080",
		RosterSize:       network.DefaultRosterSize,
		MinPairPassCount: network.DefaultMinPairPassCount,
		MarkerMax:        network.DefaultMarkerMax,
		LineMax:          network.DefaultLineMax,
		ArrowMax:         network.DefaultArrowMax,
	}
}

// Network converts the configured analysis settings into a network.Config.
func (c *Config) Network() network.Config {
	return network.Config{
		Thresholds: network.Thresholds{MinPairPassCount: c.MinPairPassCount},
		Scale: network.Scale{
			MarkerMax: c.MarkerMax,
			LineMax:   c.LineMax,
			ArrowMax:  c.ArrowMax,
		},
		RosterSize: c.RosterSize,
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("db_path must not be empty: %w", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.RosterSize <= 1:
		return fmt.Errorf("roster_size must be greater than 1, got %d: %w", c.RosterSize, ErrInvalidConfig)
	case c.MinPairPassCount < 0:
		return fmt.Errorf("min_pair_pass_count must not be negative: %w", ErrInvalidConfig)
	case c.MarkerMax <= 0 || c.LineMax <= 0 || c.ArrowMax <= 0:
		return fmt.Errorf("marker_max, line_max and arrow_max must be positive: %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalidConfig)
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
