package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCADashboard/internal/model"
)

func hasPair(alerts []model.ArbitrageAlert, a, b string, threshold float64) bool {
	for _, al := range alerts {
		if al.Threshold != threshold {
			continue
		}
		if (al.A == a && al.B == b) || (al.A == b && al.B == a) {
			return true
		}
	}
	return false
}

func TestDetectArbitrage_Example(t *testing.T) {
	deltas := map[string]float64{"A": 12.0, "B": -3.0}

	alerts := DetectArbitrage(deltas, []float64{10})
	require.Len(t, alerts, 1)
	assert.Equal(t, model.ArbitrageAlert{A: "A", B: "B", Delta: 15.0, Threshold: 10}, alerts[0])

	assert.Empty(t, DetectArbitrage(deltas, []float64{20}))
}

func TestDetectArbitrage_MultipleThresholds(t *testing.T) {
	deltas := map[string]float64{"A": 12.0, "B": -3.0, "C": 4.0}

	alerts := DetectArbitrage(deltas, []float64{5, 15, 10, 10})

	// A-B = 15 exceeds 10 and 5 only (strict), A-C = 8 exceeds 5, B-C = 7 exceeds 5.
	assert.Len(t, alerts, 4)
	assert.True(t, hasPair(alerts, "A", "B", 10))
	assert.True(t, hasPair(alerts, "A", "B", 5))
	assert.False(t, hasPair(alerts, "A", "B", 15))
	assert.True(t, hasPair(alerts, "C", "A", 5))
	assert.True(t, hasPair(alerts, "B", "C", 5))

	// largest threshold first
	assert.Equal(t, 10.0, alerts[0].Threshold)
}

func TestDetectArbitrage_SymmetricAndNoSelfPairs(t *testing.T) {
	deltas := map[string]float64{"W": 1, "X": -20, "Y": 7.5, "Z": 30}
	alerts := DetectArbitrage(deltas, []float64{5, 10, 15})

	seen := make(map[[3]any]int)
	for _, al := range alerts {
		assert.NotEqual(t, al.A, al.B)
		assert.Less(t, al.A, al.B)
		assert.True(t, hasPair(alerts, al.B, al.A, al.Threshold))
		seen[[3]any{al.A, al.B, al.Threshold}]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "pair %v emitted more than once", k)
	}
}

func TestDetectArbitrage_Deterministic(t *testing.T) {
	deltas := map[string]float64{"a": 1, "b": 9, "c": -8, "d": 22, "e": -4}
	first := DetectArbitrage(deltas, DefaultArbitrageThresholds)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, DetectArbitrage(deltas, DefaultArbitrageThresholds))
	}
}

func TestDetectArbitrage_DegenerateInput(t *testing.T) {
	assert.Empty(t, DetectArbitrage(nil, []float64{5}))
	assert.Empty(t, DetectArbitrage(map[string]float64{"solo": 50}, []float64{5}))
	assert.Empty(t, DetectArbitrage(map[string]float64{"a": 1, "b": 90}, nil))
}

func TestGroupAlerts(t *testing.T) {
	alerts := DetectArbitrage(map[string]float64{"A": 12.0, "B": -3.0, "C": 4.0}, []float64{5, 10, 15})
	tiers := GroupAlerts(alerts)

	require.Len(t, tiers, 2)
	assert.Equal(t, 10.0, tiers[0].Threshold)
	assert.Len(t, tiers[0].Alerts, 1)
	assert.Equal(t, 5.0, tiers[1].Threshold)
	assert.Len(t, tiers[1].Alerts, 3)
}
