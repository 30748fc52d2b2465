package audiodetect_test

import (
	"errors"
	"math"
	"testing"

	"statforge/internal/analysis"
	"statforge/internal/audiodetect"
)

const testRate = 1000

// impulseSignal builds a quiet signal with short loud bursts at the given times.
func impulseSignal(durationSeconds float64, burstTimes ...float64) audiodetect.Signal {
	samples := make([]float64, int(durationSeconds*testRate))
	for i := range samples {
		// Faint deterministic background so the envelope stddev is non-zero.
		samples[i] = 0.002 * math.Sin(float64(i)*0.37)
	}
	for _, t := range burstTimes {
		start := int(t * testRate)
		for i := start; i < start+25 && i < len(samples); i++ {
			samples[i] = 1.0
		}
	}
	return audiodetect.Signal{SampleRate: testRate, Samples: samples}
}

func defaultOptions() audiodetect.Options {
	return audiodetect.Options{MaxCandidates: 12, MinSpacingSeconds: 0.5}
}

func TestDetectCandidatesFindsBursts(t *testing.T) {
	sig := impulseSignal(5.0, 0.5, 2.0, 3.5)
	candidates, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(candidates), candidates)
	}
	wantTimes := []float64{0.5, 2.0, 3.5}
	for i, c := range candidates {
		if math.Abs(c.Time-wantTimes[i]) > 0.05 {
			t.Errorf("candidate %d at %.3fs, want near %.3fs", i, c.Time, wantTimes[i])
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Errorf("candidate %d confidence %v outside [0,1]", i, c.Confidence)
		}
		if c.Strength < 0 {
			t.Errorf("candidate %d strength %v negative", i, c.Strength)
		}
	}
}

func TestDetectCandidatesOrderedAndSpaced(t *testing.T) {
	sig := impulseSignal(6.0, 0.4, 1.1, 1.3, 2.8, 4.9)
	opts := audiodetect.Options{MaxCandidates: 12, MinSpacingSeconds: 0.6}
	candidates, err := audiodetect.DetectCandidates(sig, opts, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Time <= candidates[i-1].Time {
			t.Errorf("candidates not in ascending time order: %.3f after %.3f", candidates[i].Time, candidates[i-1].Time)
		}
		if gap := candidates[i].Time - candidates[i-1].Time; gap < opts.MinSpacingSeconds {
			t.Errorf("adjacent candidates %.3fs apart, want >= %.3fs", gap, opts.MinSpacingSeconds)
		}
	}
}

func TestDetectCandidatesMergesCloseEvents(t *testing.T) {
	// Two bursts 0.3s apart with 0.5s minimum spacing collapse to one candidate.
	sig := impulseSignal(4.0, 1.0, 1.3)
	candidates, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected merged single candidate, got %d: %+v", len(candidates), candidates)
	}
}

func TestDetectCandidatesTruncatesToMax(t *testing.T) {
	sig := impulseSignal(8.0, 0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5)
	opts := audiodetect.Options{MaxCandidates: 3, MinSpacingSeconds: 0.5}
	candidates, err := audiodetect.DetectCandidates(sig, opts, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected truncation to 3 candidates, got %d", len(candidates))
	}
}

func TestDetectCandidatesDeterministic(t *testing.T) {
	sig := impulseSignal(5.0, 0.7, 2.2, 4.1)
	first, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if err != nil {
		t.Fatalf("first detect: %v", err)
	}
	second, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if err != nil {
		t.Fatalf("second detect: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("detection not deterministic: %d vs %d candidates", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("candidate %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDetectCandidatesEmptySignal(t *testing.T) {
	sig := audiodetect.Signal{SampleRate: testRate}
	_, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if !errors.Is(err, analysis.ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}

func TestDetectCandidatesNoPeak(t *testing.T) {
	// A flat signal has zero stddev and nothing strictly above the threshold.
	sig := audiodetect.Signal{SampleRate: testRate, Samples: make([]float64, 2*testRate)}
	_, err := audiodetect.DetectCandidates(sig, defaultOptions(), nil)
	if !errors.Is(err, analysis.ErrNoPeakFound) {
		t.Fatalf("expected ErrNoPeakFound, got %v", err)
	}
}

func TestDetectCandidatesParameterValidation(t *testing.T) {
	sig := impulseSignal(3.0, 1.0)
	tests := []struct {
		name string
		sig  audiodetect.Signal
		opts audiodetect.Options
	}{
		{"zero sample rate", audiodetect.Signal{SampleRate: 0, Samples: sig.Samples}, defaultOptions()},
		{"zero max candidates", sig, audiodetect.Options{MaxCandidates: 0, MinSpacingSeconds: 0.5}},
		{"max candidates too large", sig, audiodetect.Options{MaxCandidates: 51, MinSpacingSeconds: 0.5}},
		{"spacing too small", sig, audiodetect.Options{MaxCandidates: 5, MinSpacingSeconds: 0.05}},
		{"spacing too large", sig, audiodetect.Options{MaxCandidates: 5, MinSpacingSeconds: 11}},
		{"negative multiplier", sig, audiodetect.Options{MaxCandidates: 5, MinSpacingSeconds: 0.5, HeightStdDevMultiplier: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := audiodetect.DetectCandidates(tc.sig, tc.opts, nil); !errors.Is(err, analysis.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDetectCatchTime(t *testing.T) {
	sig := impulseSignal(5.0, 0.5, 2.0, 3.5)
	result, err := audiodetect.DetectCatchTime(sig, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", result.Confidence)
	}
	if len(result.Candidates) == 0 || len(result.Candidates) > 5 {
		t.Errorf("expected 1..5 alternate candidates, got %d", len(result.Candidates))
	}
	if result.CatchTime != result.Candidates[0] {
		t.Errorf("strongest candidate %v should lead the alternates, got %v", result.CatchTime, result.Candidates[0])
	}
}

func TestDetectCatchTimeEmpty(t *testing.T) {
	_, err := audiodetect.DetectCatchTime(audiodetect.Signal{SampleRate: testRate}, nil)
	if !errors.Is(err, analysis.ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}

func TestSignalDuration(t *testing.T) {
	sig := audiodetect.Signal{SampleRate: 100, Samples: make([]float64, 250)}
	if got := sig.Duration(); math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("duration = %v, want 2.5", got)
	}
	if got := (audiodetect.Signal{}).Duration(); got != 0 {
		t.Fatalf("duration of empty signal = %v, want 0", got)
	}
}
