package strategy

import (
	"DCADashboard/internal/calculator"
	"DCADashboard/internal/model"
)

// AggregateSignals scores values against every window in order and returns
// the per-window signals together with the composite score. Windows without
// enough history, or with a zero mean, are reported unevaluated and add nothing.
func AggregateSignals(values []float64, windows []model.Window, threshold float64) ([]model.WindowSignal, float64) {
	signals := make([]model.WindowSignal, len(windows))
	composite := 0.0
	for i, w := range windows {
		signals[i] = model.WindowSignal{Window: w}
		if len(values) == 0 {
			continue
		}
		mean, err := calculator.WindowMean(values, w.Size)
		if err != nil {
			continue
		}
		dev, ok := Deviation(values[len(values)-1], mean)
		if !ok {
			continue
		}
		sig := ScoreDeviation(dev, threshold)
		signals[i] = model.WindowSignal{
			Window:    w,
			Evaluated: true,
			Mean:      mean,
			Deviation: dev,
			Signal:    sig,
		}
		composite += sig.Weight
	}
	return signals, composite
}

// CompositeScore is AggregateSignals without the per-window detail.
func CompositeScore(values []float64, windows []model.Window, threshold float64) float64 {
	_, score := AggregateSignals(values, windows, threshold)
	return score
}

// FavorableCount counts evaluated windows classified as favorable.
func FavorableCount(signals []model.WindowSignal) int {
	n := 0
	for _, s := range signals {
		if s.Evaluated && s.Signal.Direction == model.Favorable {
			n++
		}
	}
	return n
}

// Overweight maps the number of favorable windows to an overweight level.
func Overweight(favorable int) model.OverweightLevel {
	switch {
	case favorable >= 4:
		return model.OverweightStrong
	case favorable >= 2:
		return model.OverweightModerate
	case favorable >= 1:
		return model.OverweightWeak
	default:
		return model.OverweightNone
	}
}
