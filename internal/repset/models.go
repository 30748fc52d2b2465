package repset

import (
	"statforge/internal/protocols"
)

// RepMark is one completed catch-to-release timing observation. Immutable once
// constructed; a slice of RepMarks in insertion order forms one rep set.
type RepMark struct {
	CatchTime   float64
	ReleaseTime float64
	// TargetTime is set only for manually marked full-pop reps.
	TargetTime *float64
	MetricMode protocols.Mode
	Transfer   float64
	PopTotal   float64
	// EstimatedFlight echoes the throw estimate for estimated-pop reps.
	EstimatedFlight *float64
	// CatchConf and ReleaseConf carry detection confidences for auto-built
	// reps; nil for manual marks.
	CatchConf   *float64
	ReleaseConf *float64
}

// FromMarkers validates a manually marked rep and computes its metrics.
func FromMarkers(catchTime, releaseTime float64, targetTime *float64, mode protocols.Mode, estimatedFlight *float64) (RepMark, error) {
	metrics, err := protocols.CalculatePopMetrics(catchTime, releaseTime, targetTime, mode, estimatedFlight)
	if err != nil {
		return RepMark{}, err
	}
	mark := RepMark{
		CatchTime:       catchTime,
		ReleaseTime:     releaseTime,
		MetricMode:      mode,
		Transfer:        metrics.Transfer,
		PopTotal:        metrics.PopTotal,
		EstimatedFlight: metrics.EstimatedFlight,
	}
	if mode == protocols.ModeFullPop {
		mark.TargetTime = targetTime
	}
	return mark, nil
}
