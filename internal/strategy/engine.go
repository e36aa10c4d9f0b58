package strategy

import (
	"DCADashboard/internal/calculator"
	"DCADashboard/internal/model"
)

// Evaluate runs one full pass over snap. It never fails: assets without
// data are reported unavailable, macro series without data likewise, and
// every derived value falls back to a defined default. The result depends
// only on snap and p.
func Evaluate(snap *model.Snapshot, p Params) *model.Evaluation {
	eval := &model.Evaluation{
		Threshold: p.Threshold,
		Ceiling:   p.Ceiling,
		AsOf:      snap.FetchedAt,
		Assets:    make([]model.AssetReport, 0, len(snap.Assets)),
		Macro:     make([]model.MacroReading, 0, len(snap.Macro)),
	}

	scores := make(map[string]float64, len(snap.Assets))
	deltas := make(map[string]float64, len(snap.Assets))

	for i := range snap.Assets {
		rep := evaluateAsset(&snap.Assets[i], p)
		scores[rep.Name] = rep.CompositeScore
		if rep.Available {
			deltas[rep.Name] = rep.PercentChange
		}
		eval.Assets = append(eval.Assets, rep)
	}

	allocations, shift := NormalizeAllocations(scores, p.Ceiling)
	eval.Shift = shift
	plan := NormalizeTargets(p.Targets, p.Ceiling)
	for i := range eval.Assets {
		rep := &eval.Assets[i]
		rep.Allocation = allocations[rep.Name]
		rep.Band = Band(rep.Allocation)
		rep.Target = plan.Targets[rep.Name]
	}

	eval.Arbitrage = GroupAlerts(DetectArbitrage(deltas, p.ArbitrageThresholds))
	eval.Rebalance = DetectRebalance(allocations, plan.Targets, p.RebalanceThreshold)

	for i := range snap.Macro {
		eval.Macro = append(eval.Macro, ReadMacro(&snap.Macro[i]))
	}
	return eval
}

func evaluateAsset(s *model.AssetSeries, p Params) model.AssetReport {
	values := s.Values()
	signals, composite := AggregateSignals(values, p.Windows, p.Threshold)
	favorable := FavorableCount(signals)

	rep := model.AssetReport{
		Name:           s.Name,
		Symbol:         s.Symbol,
		Windows:        signals,
		CompositeScore: composite,
		FavorableCount: favorable,
		Overweight:     Overweight(favorable),
		PercentChange:  calculator.PercentChange(values),
	}
	if last, ok := s.Last(); ok {
		rep.Available = true
		rep.LastPrice = last.Value
		rep.LastDate = last.Date
	}
	if len(p.Windows) > 0 {
		rep.RecentLow = calculator.IsRecentLow(values, p.Windows[0].Size)
	}
	return rep
}

// ReadMacro returns the latest value of a macro series, or an unavailable
// reading when the series is empty.
func ReadMacro(s *model.MacroSeries) model.MacroReading {
	r := model.MacroReading{Label: s.Label, Code: s.Code}
	if last, ok := s.Last(); ok {
		r.Available = true
		r.Value = last.Value
		r.Date = last.Date
	}
	return r
}
