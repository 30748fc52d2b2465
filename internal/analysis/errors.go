package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySignal marks a zero-length audio sample buffer.
	ErrEmptySignal = errors.New("empty signal")
	// ErrNoPeakFound marks an envelope in which no peak clears the height threshold.
	ErrNoPeakFound = errors.New("no peak found")
	// ErrUnreadableFrame marks a frame source that cannot decode the seek-start frame.
	ErrUnreadableFrame = errors.New("unreadable frame")
	// ErrEmptyMotionWindow marks a detection window that produced no motion samples.
	ErrEmptyMotionWindow = errors.New("empty motion window")
	// ErrMissingMarker marks a protocol marker absent from the supplied set.
	ErrMissingMarker = errors.New("missing marker")
	// ErrInvalidMarkerOrder marks a marker timestamp that is not strictly after its predecessor.
	ErrInvalidMarkerOrder = errors.New("invalid marker order")
	// ErrUnknownAnalysisType marks a failed protocol registry lookup.
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
	// ErrInvalidParameter marks out-of-range caller configuration.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInvalidParameter
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsDropCondition reports whether err is a per-candidate detection failure that
// batch assembly converts into a dropped rep instead of aborting the build.
func IsDropCondition(err error) bool {
	switch {
	case errors.Is(err, ErrNoPeakFound),
		errors.Is(err, ErrUnreadableFrame),
		errors.Is(err, ErrEmptyMotionWindow):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "analysis failure"
	}
	return strings.Join(parts, ": ")
}
