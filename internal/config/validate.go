package config

import (
	"errors"
	"fmt"
	"strings"
)

// roiPresets mirrors the preset names motiondetect accepts. Kept local so the
// config layer stays import-free of the detectors.
var roiPresets = []string{"Auto", "Lower Middle", "Lower Left", "Lower Right"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.MaxReps < 1 || d.MaxReps > 50 {
		return fmt.Errorf("detection.max_reps must be between 1 and 50, got %d", d.MaxReps)
	}
	if d.MinSpacingSeconds < 0.1 || d.MinSpacingSeconds > 10 {
		return fmt.Errorf("detection.min_spacing_seconds must be between 0.1 and 10, got %g", d.MinSpacingSeconds)
	}
	if d.ReleaseWindowSeconds <= 0 || d.ReleaseWindowSeconds > 3 {
		return fmt.Errorf("detection.release_window_seconds must be in (0, 3], got %g", d.ReleaseWindowSeconds)
	}
	if d.HeightStdDevMultiplier < 0 {
		return fmt.Errorf("detection.height_stddev_multiplier must be non-negative, got %g", d.HeightStdDevMultiplier)
	}
	if d.ConfidenceThreshold < 0 || d.ConfidenceThreshold > 1 {
		return fmt.Errorf("detection.confidence_threshold must be between 0 and 1, got %g", d.ConfidenceThreshold)
	}
	if d.LowConfidenceWarn < 0 || d.LowConfidenceWarn > 1 {
		return fmt.Errorf("detection.low_confidence_warn must be between 0 and 1, got %g", d.LowConfidenceWarn)
	}
	if d.EstimatedFlightSeconds < 0 || d.EstimatedFlightSeconds > 5 {
		return fmt.Errorf("detection.estimated_flight_seconds must be between 0 and 5, got %g", d.EstimatedFlightSeconds)
	}
	if d.ROIPreset != "" && !knownPreset(d.ROIPreset) {
		return fmt.Errorf("detection.roi_preset %q is not one of: %s", d.ROIPreset, strings.Join(roiPresets, ", "))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

func knownPreset(name string) bool {
	for _, preset := range roiPresets {
		if preset == name {
			return true
		}
	}
	return false
}
