package network

import "fmt"

// Defaults for a full eleven-player network.
const (
	DefaultRosterSize       = 11
	DefaultMinPairPassCount = 3
	DefaultMarkerMax        = 1500.0
	DefaultLineMax          = 10.0
	DefaultArrowMax         = 20.0
)

// Thresholds controls which edges are kept for rendering.
type Thresholds struct {
	// MinPairPassCount drops undirected pairs with fewer passes. Zero keeps all.
	MinPairPassCount int
}

// Scale holds the display constants that normalized sizes are multiplied by.
type Scale struct {
	MarkerMax float64
	LineMax   float64
	ArrowMax  float64
}

// Config parameterizes one analysis run.
type Config struct {
	Thresholds     Thresholds
	Scale          Scale
	RosterSize     int
	ExcludedPlayer string // passes to or from this player are dropped before aggregation
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{MinPairPassCount: DefaultMinPairPassCount},
		Scale: Scale{
			MarkerMax: DefaultMarkerMax,
			LineMax:   DefaultLineMax,
			ArrowMax:  DefaultArrowMax,
		},
		RosterSize: DefaultRosterSize,
	}
}

func (c Config) validate() error {
	if c.Thresholds.MinPairPassCount < 0 {
		return fmt.Errorf("min pair pass count %d: %w", c.Thresholds.MinPairPassCount, ErrInvalidConfig)
	}
	if c.Scale.MarkerMax < 0 || c.Scale.LineMax < 0 || c.Scale.ArrowMax < 0 {
		return fmt.Errorf("negative scale %+v: %w", c.Scale, ErrInvalidConfig)
	}
	return nil
}
