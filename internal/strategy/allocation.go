package strategy

import (
	"sort"

	"DCADashboard/internal/model"
)

// NormalizeAllocations splits ceiling percent across assets in proportion
// to their composite scores after shifting them to be non-negative:
//
//	shift      = max(0, -min(score))
//	adjusted   = score + shift
//	allocation = adjusted / sum(adjusted) * ceiling
//
// A zero adjusted total is replaced by 1 so every allocation becomes 0.
// Sums run in sorted key order so the result does not depend on map order.
func NormalizeAllocations(scores map[string]float64, ceiling float64) (map[string]float64, float64) {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out, 0
	}
	names := sortedKeys(scores)

	minScore := scores[names[0]]
	for _, n := range names[1:] {
		if scores[n] < minScore {
			minScore = scores[n]
		}
	}
	shift := 0.0
	if minScore < 0 {
		shift = -minScore
	}

	total := 0.0
	for _, n := range names {
		total += scores[n] + shift
	}
	if total == 0 {
		total = 1.0
	}
	for _, n := range names {
		out[n] = (scores[n] + shift) / total * ceiling
	}
	return out, shift
}

// Band buckets an allocation percentage for card display.
func Band(allocation float64) model.AllocationBand {
	switch {
	case allocation < 4:
		return model.BandLow
	case allocation < 6:
		return model.BandModerate
	case allocation <= 10:
		return model.BandElevated
	default:
		return model.BandHigh
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
