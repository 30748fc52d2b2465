package main

import (
	"fmt"
	"strconv"
	"strings"

	"statforge/internal/motiondetect"
)

func formatSeconds(value float64) string {
	return fmt.Sprintf("%.3fs", value)
}

func formatOptSeconds(value *float64) string {
	if value == nil {
		return "-"
	}
	return formatSeconds(*value)
}

func formatConfidence(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *value)
}

// parseMarkers turns repeated name=seconds flags into a marker map.
func parseMarkers(pairs []string) (map[string]float64, error) {
	markers := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("marker %q must use name=seconds form", pair)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("marker %q: %w", pair, err)
		}
		if _, dup := markers[name]; dup {
			return nil, fmt.Errorf("marker %q given twice", name)
		}
		markers[name] = value
	}
	return markers, nil
}

// parseROI accepts a preset name or an explicit x1,y1,x2,y2 rectangle in
// normalized coordinates. An empty value falls back to the given preset.
func parseROI(value, defaultPreset string) (motiondetect.ROI, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return motiondetect.ROI{Preset: defaultPreset}, nil
	}
	if !strings.Contains(value, ",") {
		return motiondetect.ROI{Preset: value}, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return motiondetect.ROI{}, fmt.Errorf("roi %q must be a preset name or x1,y1,x2,y2", value)
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return motiondetect.ROI{}, fmt.Errorf("roi coordinate %q: %w", part, err)
		}
		coords[i] = parsed
	}
	return motiondetect.ROI{Rect: &motiondetect.NormRect{
		X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3],
	}}, nil
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
