package protocols

import (
	"fmt"

	"statforge/internal/analysis"
)

// Analysis type identifiers. These are the stable registry keys consumed by
// callers and stored alongside saved sessions.
const (
	TypeCatcherPopTime         = "Catcher Pop Time"
	TypePitcherTimeToPlate     = "Pitcher Time To Plate"
	TypeInfieldTransfer        = "Infield Transfer"
	TypeOutfieldGloveToRelease = "Outfield Glove To Release"
	TypeHittingLoadToContact   = "Hitting Load To Contact"
)

// Options carries per-computation inputs that are not markers.
type Options struct {
	// EstimatedFlight overrides the default flight estimate for catcher pop
	// time computed without a target marker. Must lie in [0, 5] seconds.
	EstimatedFlight *float64
}

// Result is the computed timing record for one protocol invocation.
type Result struct {
	// DurationSeconds is the protocol's primary metric (pop total for catcher
	// pop time, the marker span for the two-marker protocols).
	DurationSeconds float64
	// TransferSeconds is set by catcher pop time only.
	TransferSeconds *float64
	// ThrowSeconds is set by catcher pop time only: measured when a target
	// marker exists, estimated otherwise.
	ThrowSeconds *float64
}

// Protocol is one entry of the closed analysis-type set.
type Protocol interface {
	AnalysisType() string
	AllowedPositions() []string
	// Markers lists marker names in required temporal order. Optional markers
	// are listed last.
	Markers() []string
	Description() string
	Compute(markers map[string]float64, opts Options) (Result, error)
}

// catcherPopTime computes transfer plus a measured or estimated throw leg.
type catcherPopTime struct{}

func (catcherPopTime) AnalysisType() string        { return TypeCatcherPopTime }
func (catcherPopTime) AllowedPositions() []string  { return []string{PositionCatcher} }
func (catcherPopTime) Markers() []string           { return []string{MarkerCatch, MarkerRelease, MarkerTarget} }
func (catcherPopTime) Description() string {
	return "Catch-to-release plus throw time when a target marker is provided."
}

func (catcherPopTime) Compute(markers map[string]float64, opts Options) (Result, error) {
	required := []string{MarkerCatch, MarkerRelease}
	target, hasTarget := markers[MarkerTarget]
	if hasTarget {
		required = append(required, MarkerTarget)
	}
	if err := validateSequence(markers, required); err != nil {
		return Result{}, err
	}

	mode := ModeEstimatedPop
	var targetTime *float64
	var estimatedFlight *float64
	if hasTarget {
		mode = ModeFullPop
		targetTime = &target
	} else {
		flight := DefaultEstimatedFlightSeconds
		if opts.EstimatedFlight != nil {
			flight = *opts.EstimatedFlight
		}
		estimatedFlight = &flight
	}

	metrics, err := CalculatePopMetrics(markers[MarkerCatch], markers[MarkerRelease], targetTime, mode, estimatedFlight)
	if err != nil {
		return Result{}, err
	}
	transfer := metrics.Transfer
	return Result{
		DurationSeconds: metrics.PopTotal,
		TransferSeconds: &transfer,
		ThrowSeconds:    metrics.ThrowTime,
	}, nil
}

// spanProtocol measures the interval between two ordered markers.
type spanProtocol struct {
	analysisType string
	positions    []string
	startMarker  string
	endMarker    string
	description  string
}

func (p spanProtocol) AnalysisType() string       { return p.analysisType }
func (p spanProtocol) AllowedPositions() []string { return append([]string(nil), p.positions...) }
func (p spanProtocol) Markers() []string          { return []string{p.startMarker, p.endMarker} }
func (p spanProtocol) Description() string        { return p.description }

func (p spanProtocol) Compute(markers map[string]float64, _ Options) (Result, error) {
	if err := validateSequence(markers, []string{p.startMarker, p.endMarker}); err != nil {
		return Result{}, err
	}
	return Result{DurationSeconds: markers[p.endMarker] - markers[p.startMarker]}, nil
}

var all = []Protocol{
	catcherPopTime{},
	spanProtocol{
		analysisType: TypePitcherTimeToPlate,
		positions:    []string{PositionPitcher},
		startMarker:  MarkerStart,
		endMarker:    MarkerPlate,
		description:  "First movement to plate crossing.",
	},
	spanProtocol{
		analysisType: TypeInfieldTransfer,
		positions:    []string{PositionInfield, PositionFirstBase, "1B"},
		startMarker:  MarkerGlove,
		endMarker:    MarkerRelease,
		description:  "Ball-in-glove to release time.",
	},
	spanProtocol{
		analysisType: TypeOutfieldGloveToRelease,
		positions:    []string{PositionOutfield},
		startMarker:  MarkerGlove,
		endMarker:    MarkerRelease,
		description:  "Outfield transfer timing from glove to release.",
	},
	spanProtocol{
		analysisType: TypeHittingLoadToContact,
		positions:    []string{PositionHitter},
		startMarker:  MarkerLoad,
		endMarker:    MarkerContact,
		description:  "Load to contact timing for swing sequencing.",
	},
}

var registry = func() map[string]Protocol {
	m := make(map[string]Protocol, len(all))
	for _, p := range all {
		m[p.AnalysisType()] = p
	}
	return m
}()

// All returns the protocols in display order.
func All() []Protocol {
	return append([]Protocol(nil), all...)
}

// Get looks a protocol up by analysis type.
func Get(analysisType string) (Protocol, error) {
	p, ok := registry[analysisType]
	if !ok {
		return nil, analysis.Wrap(analysis.ErrUnknownAnalysisType, "protocols", "lookup", fmt.Sprintf("%q is not a registered analysis type", analysisType), nil)
	}
	return p, nil
}

// ComputeResult resolves the protocol for analysisType and computes its result.
func ComputeResult(analysisType string, markers map[string]float64, opts Options) (Result, error) {
	p, err := Get(analysisType)
	if err != nil {
		return Result{}, err
	}
	return p.Compute(markers, opts)
}
