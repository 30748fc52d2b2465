package protocols

import (
	"fmt"

	"statforge/internal/analysis"
)

// Marker names used by the built-in protocols.
const (
	MarkerCatch   = "catch"
	MarkerRelease = "release"
	MarkerTarget  = "target"
	MarkerStart   = "start"
	MarkerPlate   = "plate"
	MarkerGlove   = "glove"
	MarkerLoad    = "load"
	MarkerContact = "contact"
)

// validateSequence checks that every required marker is present and that each
// later marker is strictly after its predecessor. Marker timestamps must be
// non-negative.
func validateSequence(markers map[string]float64, required []string) error {
	for _, name := range required {
		value, ok := markers[name]
		if !ok {
			return analysis.Wrap(analysis.ErrMissingMarker, "protocols", "validate markers", fmt.Sprintf("'%s' is not set", name), nil)
		}
		if value < 0 {
			return analysis.Wrap(analysis.ErrInvalidParameter, "protocols", "validate markers", fmt.Sprintf("'%s' (%.3f) must be non-negative", name, value), nil)
		}
	}
	for i := 1; i < len(required); i++ {
		prev, next := required[i-1], required[i]
		if markers[next] <= markers[prev] {
			return analysis.Wrap(analysis.ErrInvalidMarkerOrder, "protocols", "validate markers",
				fmt.Sprintf("'%s' (%.3f) must be after '%s' (%.3f)", next, markers[next], prev, markers[prev]), nil)
		}
	}
	return nil
}
