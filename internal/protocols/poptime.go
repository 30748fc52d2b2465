package protocols

import (
	"fmt"

	"statforge/internal/analysis"
)

// Mode selects which pop-time formula applies to a catch/release pair.
type Mode string

const (
	// ModeTransfer reports only release minus catch.
	ModeTransfer Mode = "transfer"
	// ModeFullPop uses a measured target marker for the throw leg.
	ModeFullPop Mode = "full_pop"
	// ModeEstimatedPop substitutes a caller-supplied flight estimate for the
	// throw leg.
	ModeEstimatedPop Mode = "estimated_pop"
)

const (
	// DefaultEstimatedFlightSeconds is used when estimated-pop callers supply
	// no flight time. Tunable heuristic.
	DefaultEstimatedFlightSeconds = 0.8

	// MaxEstimatedFlightSeconds bounds caller-supplied flight estimates.
	MaxEstimatedFlightSeconds = 5.0
)

// PopMetrics is the result of one pop-time computation.
type PopMetrics struct {
	Mode     Mode
	Transfer float64
	// ThrowTime is the throw leg duration; nil in transfer mode.
	ThrowTime *float64
	PopTotal  float64
	// EstimatedFlight echoes the estimate used; set only in estimated-pop mode.
	EstimatedFlight *float64
}

// CalculatePopMetrics computes transfer and pop totals for a catch/release
// pair. targetTime is required for ModeFullPop; estimatedFlight is required for
// ModeEstimatedPop and must lie in [0, MaxEstimatedFlightSeconds].
func CalculatePopMetrics(catchTime, releaseTime float64, targetTime *float64, mode Mode, estimatedFlight *float64) (PopMetrics, error) {
	if releaseTime <= catchTime {
		return PopMetrics{}, analysis.Wrap(analysis.ErrInvalidMarkerOrder, "protocols", "pop metrics",
			fmt.Sprintf("'release' (%.3f) must be after 'catch' (%.3f)", releaseTime, catchTime), nil)
	}

	transfer := releaseTime - catchTime
	metrics := PopMetrics{Mode: mode, Transfer: transfer}

	switch mode {
	case ModeFullPop:
		if targetTime == nil {
			return PopMetrics{}, analysis.Wrap(analysis.ErrMissingMarker, "protocols", "pop metrics", "'target' is required for full pop", nil)
		}
		if *targetTime <= releaseTime {
			return PopMetrics{}, analysis.Wrap(analysis.ErrInvalidMarkerOrder, "protocols", "pop metrics",
				fmt.Sprintf("'target' (%.3f) must be after 'release' (%.3f)", *targetTime, releaseTime), nil)
		}
		throw := *targetTime - releaseTime
		metrics.ThrowTime = &throw
		metrics.PopTotal = *targetTime - catchTime
	case ModeEstimatedPop:
		if estimatedFlight == nil {
			return PopMetrics{}, analysis.Wrap(analysis.ErrInvalidParameter, "protocols", "pop metrics", "estimated flight is required for estimated pop", nil)
		}
		if *estimatedFlight < 0 || *estimatedFlight > MaxEstimatedFlightSeconds {
			return PopMetrics{}, analysis.Wrap(analysis.ErrInvalidParameter, "protocols", "pop metrics",
				fmt.Sprintf("estimated flight must be in [0, %.1f] seconds, got %g", MaxEstimatedFlightSeconds, *estimatedFlight), nil)
		}
		flight := *estimatedFlight
		metrics.ThrowTime = &flight
		metrics.PopTotal = transfer + flight
		metrics.EstimatedFlight = &flight
	case ModeTransfer:
		metrics.PopTotal = transfer
	default:
		return PopMetrics{}, analysis.Wrap(analysis.ErrInvalidParameter, "protocols", "pop metrics", fmt.Sprintf("unknown metric mode %q", mode), nil)
	}

	return metrics, nil
}
