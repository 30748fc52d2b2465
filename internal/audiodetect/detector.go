package audiodetect

import (
	"fmt"
	"math"
	"sort"

	"log/slog"

	"gonum.org/v1/gonum/stat"

	"statforge/internal/analysis"
	"statforge/internal/logging"
)

// Signal is a mono PCM buffer with its sample rate. Samples are expected to lie
// roughly in [-1, 1]; the detector treats the buffer as read-only.
type Signal struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Candidate is one detected catch event.
type Candidate struct {
	// Time is the event timestamp in seconds from the start of the signal.
	Time float64
	// Confidence is the peak prominence normalized by the strongest peak, in [0, 1].
	Confidence float64
	// Strength is the raw envelope prominence of the peak.
	Strength float64
}

// Options configures candidate detection.
type Options struct {
	// MaxCandidates caps the returned list, 1..50.
	MaxCandidates int
	// MinSpacingSeconds is the minimum distance between returned candidates, 0.1..10.
	MinSpacingSeconds float64
	// HeightStdDevMultiplier scales the stddev term of the peak height threshold.
	// Zero selects DefaultHeightStdDevMultiplier. Tunable heuristic, not derived
	// from a model.
	HeightStdDevMultiplier float64
}

const (
	envelopeWindowSeconds = 0.010
	peakSpacingSeconds    = 0.120

	// DefaultHeightStdDevMultiplier is the default K in the peak height
	// threshold baseline + K*stddev(envelope).
	DefaultHeightStdDevMultiplier = 1.0

	singleBestSpacingSeconds = 0.12
	singleBestMaxCandidates  = 10
	maxAlternates            = 5

	minCandidates     = 1
	maxCandidatesCap  = 50
	minSpacingFloor   = 0.1
	minSpacingCeiling = 10.0
)

// CatchResult is the single-best detection shape returned by DetectCatchTime.
type CatchResult struct {
	CatchTime  float64
	Confidence float64
	// Candidates holds up to 5 alternative times ordered by descending confidence.
	Candidates []float64
}

// DetectCandidates finds catch candidates in sig, ordered by ascending time,
// with no two entries closer than opts.MinSpacingSeconds.
func DetectCandidates(sig Signal, opts Options, logger *slog.Logger) ([]Candidate, error) {
	logger = logging.Ensure(logger).With("component", "audiodetect")

	if err := validateOptions(sig, opts); err != nil {
		return nil, err
	}
	if len(sig.Samples) == 0 {
		return nil, analysis.Wrap(analysis.ErrEmptySignal, "audiodetect", "detect candidates", "audio track has no samples", nil)
	}

	multiplier := opts.HeightStdDevMultiplier
	if multiplier == 0 {
		multiplier = DefaultHeightStdDevMultiplier
	}

	window := int(math.Round(float64(sig.SampleRate) * envelopeWindowSeconds))
	if window < 1 {
		window = 1
	}
	envelope := absEnvelope(sig.Samples, window)

	baseline := median(envelope)
	height := baseline + stat.PopStdDev(envelope, nil)*multiplier
	spacing := int(math.Round(float64(sig.SampleRate) * peakSpacingSeconds))
	if spacing < 1 {
		spacing = 1
	}

	peaks := scanPeaks(envelope, height, spacing)
	if len(peaks) == 0 {
		return nil, analysis.Wrap(analysis.ErrNoPeakFound, "audiodetect", "detect candidates", "no envelope peak cleared the height threshold", nil)
	}

	maxProminence := 0.0
	for _, p := range peaks {
		if envelope[p] > maxProminence {
			maxProminence = envelope[p]
		}
	}
	if maxProminence <= 0 {
		maxProminence = 1.0
	}

	candidates := make([]Candidate, 0, len(peaks))
	for _, p := range peaks {
		prominence := envelope[p]
		candidates = append(candidates, Candidate{
			Time:       float64(p) / float64(sig.SampleRate),
			Confidence: clamp01(prominence / maxProminence),
			Strength:   prominence,
		})
	}

	deduped := dedupe(candidates, opts.MinSpacingSeconds)
	if len(deduped) > opts.MaxCandidates {
		deduped = deduped[:opts.MaxCandidates]
	}

	logger.Debug("catch candidates detected",
		"peaks", len(peaks),
		"kept", len(deduped),
		"baseline", baseline,
		"height_threshold", height)
	return deduped, nil
}

// DetectCatchTime returns the single strongest catch candidate together with up
// to five alternative times for audit. It runs the batch path with a small
// spacing so closely grouped impacts still compete on confidence.
func DetectCatchTime(sig Signal, logger *slog.Logger) (CatchResult, error) {
	candidates, err := DetectCandidates(sig, Options{
		MaxCandidates:     singleBestMaxCandidates,
		MinSpacingSeconds: singleBestSpacingSeconds,
	}, logger)
	if err != nil {
		return CatchResult{}, err
	}

	byConfidence := make([]Candidate, len(candidates))
	copy(byConfidence, candidates)
	sort.SliceStable(byConfidence, func(i, j int) bool {
		return byConfidence[i].Confidence > byConfidence[j].Confidence
	})

	alternates := make([]float64, 0, maxAlternates)
	for _, c := range byConfidence {
		if len(alternates) == maxAlternates {
			break
		}
		alternates = append(alternates, c.Time)
	}

	best := byConfidence[0]
	return CatchResult{
		CatchTime:  best.Time,
		Confidence: best.Confidence,
		Candidates: alternates,
	}, nil
}

func validateOptions(sig Signal, opts Options) error {
	if sig.SampleRate <= 0 {
		return analysis.Wrap(analysis.ErrInvalidParameter, "audiodetect", "validate", fmt.Sprintf("sample rate must be positive, got %d", sig.SampleRate), nil)
	}
	if opts.MaxCandidates < minCandidates || opts.MaxCandidates > maxCandidatesCap {
		return analysis.Wrap(analysis.ErrInvalidParameter, "audiodetect", "validate", fmt.Sprintf("max candidates must be in [%d, %d], got %d", minCandidates, maxCandidatesCap, opts.MaxCandidates), nil)
	}
	if opts.MinSpacingSeconds < minSpacingFloor || opts.MinSpacingSeconds > minSpacingCeiling {
		return analysis.Wrap(analysis.ErrInvalidParameter, "audiodetect", "validate", fmt.Sprintf("min spacing must be in [%.1f, %.1f] seconds, got %g", minSpacingFloor, minSpacingCeiling, opts.MinSpacingSeconds), nil)
	}
	if opts.HeightStdDevMultiplier < 0 {
		return analysis.Wrap(analysis.ErrInvalidParameter, "audiodetect", "validate", fmt.Sprintf("height stddev multiplier must be non-negative, got %g", opts.HeightStdDevMultiplier), nil)
	}
	return nil
}

// scanPeaks finds local maxima above height with at least spacing samples
// between accepted peaks. When two maxima violate the spacing the taller one
// wins its slot.
func scanPeaks(envelope []float64, height float64, spacing int) []int {
	var peaks []int
	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] <= height {
			continue
		}
		if envelope[i] < envelope[i-1] || envelope[i] < envelope[i+1] {
			continue
		}
		if len(peaks) == 0 || i-peaks[len(peaks)-1] >= spacing {
			peaks = append(peaks, i)
		} else if envelope[i] > envelope[peaks[len(peaks)-1]] {
			peaks[len(peaks)-1] = i
		}
	}
	return peaks
}

// dedupe walks time-ordered candidates and merges any pair closer than spacing,
// always retaining the higher-confidence entry.
func dedupe(candidates []Candidate, spacing float64) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if c.Time-last.Time < spacing {
			if c.Confidence > last.Confidence {
				*last = c
			}
		} else {
			out = append(out, c)
		}
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
