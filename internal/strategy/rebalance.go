package strategy

import (
	"math"

	"DCADashboard/internal/model"
)

// TargetPlan is the result of fitting user targets under the ceiling.
type TargetPlan struct {
	Targets map[string]float64
	// Remaining is the unallocated share of the ceiling, 0 when over.
	Remaining float64
	// Overflow is how far the raw targets exceeded the ceiling, 0 when under.
	Overflow float64
	// Factor is the scale applied to the raw targets (1 when not scaled).
	Factor float64
}

// NormalizeTargets scales raw targets down proportionally when their sum
// exceeds ceiling. Negative targets count as zero.
func NormalizeTargets(raw map[string]float64, ceiling float64) TargetPlan {
	plan := TargetPlan{Targets: make(map[string]float64, len(raw)), Factor: 1}
	total := 0.0
	for _, n := range sortedKeys(raw) {
		total += math.Max(raw[n], 0)
	}
	if total > ceiling && total > 0 {
		plan.Factor = ceiling / total
		plan.Overflow = total - ceiling
	} else {
		plan.Remaining = ceiling - total
	}
	for n, v := range raw {
		plan.Targets[n] = math.Max(v, 0) * plan.Factor
	}
	return plan
}

// DetectRebalance flags assets whose allocation is more than threshold
// percentage points away from their target. Assets without a target are
// ignored. Results are ordered by asset name.
func DetectRebalance(allocations, targets map[string]float64, threshold float64) []model.RebalanceAlert {
	var alerts []model.RebalanceAlert
	for _, n := range sortedKeys(targets) {
		alloc, ok := allocations[n]
		if !ok {
			continue
		}
		drift := alloc - targets[n]
		if math.Abs(drift) > threshold {
			alerts = append(alerts, model.RebalanceAlert{
				Asset:      n,
				Target:     targets[n],
				Allocation: alloc,
				Drift:      drift,
				Threshold:  threshold,
			})
		}
	}
	return alerts
}
