package strategy

import (
	"math"

	"DCADashboard/internal/model"
)

// Deviation returns the signed fractional distance of last from mean.
// It reports false when mean is zero or the result is not finite; such a
// window carries no information and must be skipped.
func Deviation(last, mean float64) (float64, bool) {
	if mean == 0 {
		return 0, false
	}
	d := (last - mean) / mean
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return d, true
}

// ScoreDeviation classifies a deviation against threshold (a fraction).
//
//	deviation < 0                → +1.0 favorable (below the trailing average)
//	0 <= deviation < threshold   → +0.5 neutral (mild excess, tolerated)
//	deviation >= threshold       → -1.0 unfavorable
func ScoreDeviation(deviation, threshold float64) model.Signal {
	switch {
	case deviation < 0:
		return model.Signal{Weight: 1.0, Direction: model.Favorable}
	case deviation < threshold:
		return model.Signal{Weight: 0.5, Direction: model.Neutral}
	default:
		return model.Signal{Weight: -1.0, Direction: model.Unfavorable}
	}
}
