package protocols_test

import (
	"testing"

	"statforge/internal/protocols"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1B", protocols.PositionFirstBase},
		{"first base", protocols.PositionFirstBase},
		{"c", protocols.PositionCatcher},
		{"Catcher", protocols.PositionCatcher},
		{"P", protocols.PositionPitcher},
		{"ss", protocols.PositionInfield},
		{"2b", protocols.PositionInfield},
		{"infielder", protocols.PositionInfield},
		{"OF", protocols.PositionOutfield},
		{"cf", protocols.PositionOutfield},
		{"DH", protocols.PositionHitter},
		{"batter", protocols.PositionHitter},
		{"  lf  ", protocols.PositionOutfield},
		{"", protocols.PositionCatcher},
		{"   ", protocols.PositionCatcher},
		// Unrecognized strings pass through trimmed.
		{" Utility ", "Utility"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := protocols.NormalizePosition(tc.in); got != tc.want {
				t.Fatalf("NormalizePosition(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestProtocolsForPosition(t *testing.T) {
	tests := []struct {
		position string
		want     []string
	}{
		{"catcher", []string{protocols.TypeCatcherPopTime}},
		{"p", []string{protocols.TypePitcherTimeToPlate}},
		{"ss", []string{protocols.TypeInfieldTransfer}},
		{"1b", []string{protocols.TypeInfieldTransfer}},
		{"rf", []string{protocols.TypeOutfieldGloveToRelease}},
		{"dh", []string{protocols.TypeHittingLoadToContact}},
		{"Utility", nil},
	}
	for _, tc := range tests {
		t.Run(tc.position, func(t *testing.T) {
			matched := protocols.ProtocolsForPosition(tc.position)
			if len(matched) != len(tc.want) {
				t.Fatalf("got %d protocols, want %d", len(matched), len(tc.want))
			}
			for i, p := range matched {
				if p.AnalysisType() != tc.want[i] {
					t.Errorf("protocol %d = %q, want %q", i, p.AnalysisType(), tc.want[i])
				}
			}
		})
	}
}
