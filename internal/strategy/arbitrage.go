package strategy

import (
	"math"
	"sort"

	"DCADashboard/internal/model"
)

// DetectArbitrage reports every unordered pair of distinct assets whose
// percent changes differ by strictly more than each threshold. A pair shows
// up once per threshold it exceeds. Thresholds are de-duplicated and walked
// from largest to smallest; within a threshold pairs are ordered by name.
func DetectArbitrage(deltas map[string]float64, thresholds []float64) []model.ArbitrageAlert {
	names := sortedKeys(deltas)
	var alerts []model.ArbitrageAlert
	for _, t := range distinctDescending(thresholds) {
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				diff := math.Abs(deltas[names[i]] - deltas[names[j]])
				if diff > t {
					alerts = append(alerts, model.ArbitrageAlert{
						A:         names[i],
						B:         names[j],
						Delta:     diff,
						Threshold: t,
					})
				}
			}
		}
	}
	return alerts
}

// GroupAlerts groups alerts by threshold, keeping their order. Thresholds
// without alerts are omitted.
func GroupAlerts(alerts []model.ArbitrageAlert) []model.ArbitrageTier {
	var tiers []model.ArbitrageTier
	for _, a := range alerts {
		if n := len(tiers); n > 0 && tiers[n-1].Threshold == a.Threshold {
			tiers[n-1].Alerts = append(tiers[n-1].Alerts, a)
			continue
		}
		tiers = append(tiers, model.ArbitrageTier{Threshold: a.Threshold, Alerts: []model.ArbitrageAlert{a}})
	}
	return tiers
}

func distinctDescending(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		if math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
