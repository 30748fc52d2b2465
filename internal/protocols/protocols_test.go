package protocols_test

import (
	"errors"
	"math"
	"testing"

	"statforge/internal/analysis"
	"statforge/internal/protocols"
)

const tolerance = 1e-9

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCatcherPopTimeFullPop(t *testing.T) {
	result, err := protocols.ComputeResult(protocols.TypeCatcherPopTime, map[string]float64{
		"catch":   0.50,
		"release": 1.25,
		"target":  2.05,
	}, protocols.Options{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	approx(t, "duration", result.DurationSeconds, 1.55)
	if result.TransferSeconds == nil || result.ThrowSeconds == nil {
		t.Fatalf("expected transfer and throw set, got %+v", result)
	}
	approx(t, "transfer", *result.TransferSeconds, 0.75)
	approx(t, "throw", *result.ThrowSeconds, 0.80)
	// pop_total == transfer + throw when a target is supplied.
	approx(t, "pop identity", result.DurationSeconds, *result.TransferSeconds+*result.ThrowSeconds)
}

func TestCatcherPopTimeEstimatedDefault(t *testing.T) {
	result, err := protocols.ComputeResult(protocols.TypeCatcherPopTime, map[string]float64{
		"catch":   0.50,
		"release": 1.25,
	}, protocols.Options{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	approx(t, "transfer", *result.TransferSeconds, 0.75)
	approx(t, "throw", *result.ThrowSeconds, 0.80)
	approx(t, "duration", result.DurationSeconds, 1.55)
}

func TestCatcherPopTimeEstimatedOverride(t *testing.T) {
	flight := 1.2
	result, err := protocols.ComputeResult(protocols.TypeCatcherPopTime, map[string]float64{
		"catch":   1.00,
		"release": 1.60,
	}, protocols.Options{EstimatedFlight: &flight})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	approx(t, "duration", result.DurationSeconds, 1.80)
	approx(t, "throw", *result.ThrowSeconds, 1.2)
}

func TestCatcherPopTimeEstimatedFlightBounds(t *testing.T) {
	for _, flight := range []float64{-0.1, 5.1} {
		f := flight
		_, err := protocols.ComputeResult(protocols.TypeCatcherPopTime, map[string]float64{
			"catch":   0.5,
			"release": 1.0,
		}, protocols.Options{EstimatedFlight: &f})
		if !errors.Is(err, analysis.ErrInvalidParameter) {
			t.Errorf("flight %v: expected ErrInvalidParameter, got %v", flight, err)
		}
	}
	for _, flight := range []float64{0, 5.0} {
		f := flight
		if _, err := protocols.ComputeResult(protocols.TypeCatcherPopTime, map[string]float64{
			"catch":   0.5,
			"release": 1.0,
		}, protocols.Options{EstimatedFlight: &f}); err != nil {
			t.Errorf("flight %v: unexpected error %v", flight, err)
		}
	}
}

func TestSpanProtocols(t *testing.T) {
	tests := []struct {
		analysisType string
		markers      map[string]float64
		want         float64
	}{
		{protocols.TypePitcherTimeToPlate, map[string]float64{"start": 0.10, "plate": 1.55}, 1.45},
		{protocols.TypeInfieldTransfer, map[string]float64{"glove": 0.20, "release": 0.92}, 0.72},
		{protocols.TypeInfieldTransfer, map[string]float64{"glove": 0.40, "release": 1.52}, 1.12},
		{protocols.TypeOutfieldGloveToRelease, map[string]float64{"glove": 0.20, "release": 0.92}, 0.72},
		{protocols.TypeOutfieldGloveToRelease, map[string]float64{"glove": 0.40, "release": 1.52}, 1.12},
		{protocols.TypeHittingLoadToContact, map[string]float64{"load": 0.33, "contact": 0.67}, 0.34},
	}
	for _, tc := range tests {
		t.Run(tc.analysisType, func(t *testing.T) {
			result, err := protocols.ComputeResult(tc.analysisType, tc.markers, protocols.Options{})
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			approx(t, "duration", result.DurationSeconds, tc.want)
			if result.TransferSeconds != nil || result.ThrowSeconds != nil {
				t.Errorf("span protocols should not report transfer/throw, got %+v", result)
			}
		})
	}
}

func TestMissingMarker(t *testing.T) {
	tests := []struct {
		analysisType string
		markers      map[string]float64
	}{
		{protocols.TypeCatcherPopTime, map[string]float64{"catch": 0.5}},
		{protocols.TypePitcherTimeToPlate, map[string]float64{"plate": 1.0}},
		{protocols.TypeInfieldTransfer, map[string]float64{"glove": 0.2}},
		{protocols.TypeHittingLoadToContact, map[string]float64{}},
	}
	for _, tc := range tests {
		t.Run(tc.analysisType, func(t *testing.T) {
			_, err := protocols.ComputeResult(tc.analysisType, tc.markers, protocols.Options{})
			if !errors.Is(err, analysis.ErrMissingMarker) {
				t.Fatalf("expected ErrMissingMarker, got %v", err)
			}
		})
	}
}

func TestInvalidMarkerOrder(t *testing.T) {
	tests := []struct {
		analysisType string
		markers      map[string]float64
	}{
		{protocols.TypeCatcherPopTime, map[string]float64{"catch": 1.5, "release": 1.0}},
		{protocols.TypeCatcherPopTime, map[string]float64{"catch": 0.5, "release": 1.0, "target": 0.9}},
		{protocols.TypeCatcherPopTime, map[string]float64{"catch": 0.5, "release": 0.5}},
		{protocols.TypePitcherTimeToPlate, map[string]float64{"start": 2.0, "plate": 1.0}},
		{protocols.TypeOutfieldGloveToRelease, map[string]float64{"glove": 1.0, "release": 1.0}},
		{protocols.TypeHittingLoadToContact, map[string]float64{"load": 0.7, "contact": 0.3}},
	}
	for _, tc := range tests {
		t.Run(tc.analysisType, func(t *testing.T) {
			_, err := protocols.ComputeResult(tc.analysisType, tc.markers, protocols.Options{})
			if !errors.Is(err, analysis.ErrInvalidMarkerOrder) {
				t.Fatalf("expected ErrInvalidMarkerOrder, got %v", err)
			}
		})
	}
}

func TestNegativeMarkerRejected(t *testing.T) {
	_, err := protocols.ComputeResult(protocols.TypePitcherTimeToPlate, map[string]float64{"start": -0.2, "plate": 1.0}, protocols.Options{})
	if !errors.Is(err, analysis.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestUnknownAnalysisType(t *testing.T) {
	_, err := protocols.ComputeResult("Bullpen Velocity", nil, protocols.Options{})
	if !errors.Is(err, analysis.ErrUnknownAnalysisType) {
		t.Fatalf("expected ErrUnknownAnalysisType, got %v", err)
	}
	if _, err := protocols.Get("Bullpen Velocity"); !errors.Is(err, analysis.ErrUnknownAnalysisType) {
		t.Fatalf("expected ErrUnknownAnalysisType from Get, got %v", err)
	}
}

func TestRegistryComplete(t *testing.T) {
	want := []string{
		protocols.TypeCatcherPopTime,
		protocols.TypePitcherTimeToPlate,
		protocols.TypeInfieldTransfer,
		protocols.TypeOutfieldGloveToRelease,
		protocols.TypeHittingLoadToContact,
	}
	listed := protocols.All()
	if len(listed) != len(want) {
		t.Fatalf("expected %d protocols, got %d", len(want), len(listed))
	}
	for i, p := range listed {
		if p.AnalysisType() != want[i] {
			t.Errorf("protocol %d = %q, want %q", i, p.AnalysisType(), want[i])
		}
		got, err := protocols.Get(p.AnalysisType())
		if err != nil {
			t.Errorf("Get(%q): %v", p.AnalysisType(), err)
			continue
		}
		if got.AnalysisType() != p.AnalysisType() {
			t.Errorf("registry entry for %q resolves to %q", p.AnalysisType(), got.AnalysisType())
		}
	}
}
