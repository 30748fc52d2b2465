package protocols

import "strings"

// Position tags used for protocol filtering.
const (
	PositionCatcher   = "Catcher"
	PositionPitcher   = "Pitcher"
	PositionInfield   = "Infield"
	PositionFirstBase = "FirstBase"
	PositionOutfield  = "Outfield"
	PositionHitter    = "Hitter"
)

// NormalizePosition maps free-text position strings to the fixed tags above.
// Unrecognized non-empty strings pass through trimmed so callers can surface
// them as-is; empty input defaults to Catcher.
func NormalizePosition(position string) string {
	trimmed := strings.TrimSpace(position)
	switch strings.ToLower(trimmed) {
	case "1b", "first", "first base", "firstbase":
		return PositionFirstBase
	case "c", "catcher":
		return PositionCatcher
	case "p", "pitcher":
		return PositionPitcher
	case "if", "infield", "infielder", "2b", "3b", "ss":
		return PositionInfield
	case "of", "outfield", "outfielder", "lf", "cf", "rf":
		return PositionOutfield
	case "hitter", "hit", "bat", "batter", "dh":
		return PositionHitter
	case "":
		return PositionCatcher
	default:
		return trimmed
	}
}

// ProtocolsForPosition returns the protocols whose allowed positions include
// the normalized form of position, in display order.
func ProtocolsForPosition(position string) []Protocol {
	normalized := NormalizePosition(position)
	var matched []Protocol
	for _, p := range all {
		for _, allowed := range p.AllowedPositions() {
			if allowed == normalized {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}
