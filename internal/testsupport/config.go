package testsupport

import (
	"path/filepath"
	"testing"

	"statforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithROIPreset overrides the motion search preset on the test config.
func WithROIPreset(preset string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Detection.ROIPreset = preset
	}
}

// WithMaxReps overrides the catch candidate cap on the test config.
func WithMaxReps(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Detection.MaxReps = n
	}
}
