package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTargets_UnderCeiling(t *testing.T) {
	plan := NormalizeTargets(map[string]float64{"A": 10, "B": 15}, 50)

	assert.Equal(t, 1.0, plan.Factor)
	assert.InDelta(t, 25.0, plan.Remaining, 1e-9)
	assert.Zero(t, plan.Overflow)
	assert.Equal(t, 10.0, plan.Targets["A"])
}

func TestNormalizeTargets_ScalesOverflow(t *testing.T) {
	plan := NormalizeTargets(map[string]float64{"A": 40, "B": 40, "C": -5}, 50)

	assert.InDelta(t, 30.0, plan.Overflow, 1e-9)
	assert.InDelta(t, 0.625, plan.Factor, 1e-9)
	assert.InDelta(t, 25.0, plan.Targets["A"], 1e-9)
	assert.InDelta(t, 25.0, plan.Targets["B"], 1e-9)
	assert.Zero(t, plan.Targets["C"])
	assert.Zero(t, plan.Remaining)
}

func TestDetectRebalance(t *testing.T) {
	allocations := map[string]float64{"A": 30, "B": 5, "C": 15}
	targets := map[string]float64{"A": 10, "B": 6, "D": 10}

	alerts := DetectRebalance(allocations, targets, 15)

	require.Len(t, alerts, 1)
	assert.Equal(t, "A", alerts[0].Asset)
	assert.InDelta(t, 20.0, alerts[0].Drift, 1e-9)
	assert.Empty(t, DetectRebalance(allocations, nil, 15))
}
