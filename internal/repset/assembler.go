package repset

import (
	"context"
	"fmt"

	"log/slog"

	"statforge/internal/analysis"
	"statforge/internal/audiodetect"
	"statforge/internal/logging"
	"statforge/internal/motiondetect"
	"statforge/internal/protocols"
)

// FrameSourceOpener produces a fresh frame source for one release search. The
// motion detector takes ownership of each returned source and closes it.
type FrameSourceOpener func() (motiondetect.FrameSource, error)

// Options configures a batch build.
type Options struct {
	// MaxReps caps catch candidates, 1..50.
	MaxReps int
	// MinSpacingSeconds deduplicates catch candidates, 0.1..10.
	MinSpacingSeconds float64
	// ReleaseWindowSeconds bounds each motion search, (0, 3].
	ReleaseWindowSeconds float64
	// ROI selects the motion search region.
	ROI motiondetect.ROI
	// Mode is transfer or estimated_pop. Full pop needs target markers, which
	// cannot be auto-detected.
	Mode protocols.Mode
	// ConfidenceThreshold drops reps whose catch or release confidence falls
	// below it, [0, 1].
	ConfidenceThreshold float64
	// EstimatedFlight is required for estimated-pop mode, [0, 5] seconds.
	EstimatedFlight *float64
	// HeightStdDevMultiplier tunes the audio peak threshold; zero selects the
	// default.
	HeightStdDevMultiplier float64
}

// Summary reconciles the build: Kept+Dropped == Found always.
type Summary struct {
	Found   int
	Kept    int
	Dropped int
}

// Build turns one recording into a rep set. Candidates are processed
// sequentially in ascending catch-time order, one fresh frame source per
// candidate, so results are deterministic. A recording with no detectable
// catches yields an empty set and a zero summary rather than an error.
func Build(ctx context.Context, sig audiodetect.Signal, openFrames FrameSourceOpener, opts Options, logger *slog.Logger) ([]RepMark, Summary, error) {
	logger = logging.Ensure(logger).With("component", "repset")

	if err := validateOptions(opts); err != nil {
		return nil, Summary{}, err
	}

	candidates, err := audiodetect.DetectCandidates(sig, audiodetect.Options{
		MaxCandidates:          opts.MaxReps,
		MinSpacingSeconds:      opts.MinSpacingSeconds,
		HeightStdDevMultiplier: opts.HeightStdDevMultiplier,
	}, logger)
	if err != nil {
		if analysis.IsDropCondition(err) {
			logger.Info("no catch events found")
			return nil, Summary{}, nil
		}
		return nil, Summary{}, err
	}

	reps := make([]RepMark, 0, len(candidates))
	summary := Summary{Found: len(candidates)}
	for _, candidate := range candidates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, Summary{}, ctxErr
		}

		mark, ok := buildOne(candidate, openFrames, opts, logger)
		if !ok {
			summary.Dropped++
			continue
		}
		reps = append(reps, mark)
		summary.Kept++
	}

	logger.Info("rep set assembled",
		"found", summary.Found,
		"kept", summary.Kept,
		"dropped", summary.Dropped)
	return reps, summary, nil
}

func buildOne(candidate audiodetect.Candidate, openFrames FrameSourceOpener, opts Options, logger *slog.Logger) (RepMark, bool) {
	src, err := openFrames()
	if err != nil {
		logger.Debug("candidate dropped: frame source", "catch_time", candidate.Time, "error", err)
		return RepMark{}, false
	}

	release, err := motiondetect.Detect(src, candidate.Time, opts.ROI, opts.ReleaseWindowSeconds, logger)
	if err != nil {
		logger.Debug("candidate dropped: release detection", "catch_time", candidate.Time, "error", err)
		return RepMark{}, false
	}
	if release.ReleaseTime <= candidate.Time {
		logger.Debug("candidate dropped: release precedes catch", "catch_time", candidate.Time, "release_time", release.ReleaseTime)
		return RepMark{}, false
	}
	if candidate.Confidence < opts.ConfidenceThreshold || release.Confidence < opts.ConfidenceThreshold {
		logger.Debug("candidate dropped: low confidence",
			"catch_time", candidate.Time,
			"catch_conf", candidate.Confidence,
			"release_conf", release.Confidence)
		return RepMark{}, false
	}

	metrics, err := protocols.CalculatePopMetrics(candidate.Time, release.ReleaseTime, nil, opts.Mode, opts.EstimatedFlight)
	if err != nil {
		logger.Debug("candidate dropped: metrics", "catch_time", candidate.Time, "error", err)
		return RepMark{}, false
	}

	catchConf := candidate.Confidence
	releaseConf := release.Confidence
	return RepMark{
		CatchTime:       candidate.Time,
		ReleaseTime:     release.ReleaseTime,
		MetricMode:      opts.Mode,
		Transfer:        metrics.Transfer,
		PopTotal:        metrics.PopTotal,
		EstimatedFlight: metrics.EstimatedFlight,
		CatchConf:       &catchConf,
		ReleaseConf:     &releaseConf,
	}, true
}

func validateOptions(opts Options) error {
	switch opts.Mode {
	case protocols.ModeTransfer:
	case protocols.ModeEstimatedPop:
		if opts.EstimatedFlight == nil {
			return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate", "estimated flight is required for estimated pop mode", nil)
		}
		if *opts.EstimatedFlight < 0 || *opts.EstimatedFlight > protocols.MaxEstimatedFlightSeconds {
			return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate",
				fmt.Sprintf("estimated flight must be in [0, %.1f] seconds, got %g", protocols.MaxEstimatedFlightSeconds, *opts.EstimatedFlight), nil)
		}
	case protocols.ModeFullPop:
		return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate", "full pop mode requires target markers, which cannot be auto-detected", nil)
	default:
		return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate", fmt.Sprintf("unknown metric mode %q", opts.Mode), nil)
	}
	if opts.ConfidenceThreshold < 0 || opts.ConfidenceThreshold > 1 {
		return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate",
			fmt.Sprintf("confidence threshold must be in [0, 1], got %g", opts.ConfidenceThreshold), nil)
	}
	if opts.ReleaseWindowSeconds <= 0 || opts.ReleaseWindowSeconds > 3 {
		return analysis.Wrap(analysis.ErrInvalidParameter, "repset", "validate",
			fmt.Sprintf("release window must be in (0, 3] seconds, got %g", opts.ReleaseWindowSeconds), nil)
	}
	return nil
}
