package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"DCADashboard/internal/model"
)

func sum(m map[string]float64) float64 {
	total := 0.0
	for _, k := range sortedKeys(m) {
		total += m[k]
	}
	return total
}

func TestNormalizeAllocations_ShiftExample(t *testing.T) {
	alloc, shift := NormalizeAllocations(map[string]float64{"A": 2.0, "B": -1.0}, 50)

	assert.Equal(t, 1.0, shift)
	assert.InDelta(t, 50.0, alloc["A"], 1e-9)
	assert.InDelta(t, 0.0, alloc["B"], 1e-9)
}

func TestNormalizeAllocations_NoShiftWhenAllPositive(t *testing.T) {
	alloc, shift := NormalizeAllocations(map[string]float64{"A": 1, "B": 3}, 40)

	assert.Zero(t, shift)
	assert.InDelta(t, 10.0, alloc["A"], 1e-9)
	assert.InDelta(t, 30.0, alloc["B"], 1e-9)
}

func TestNormalizeAllocations_ZeroTotal(t *testing.T) {
	alloc, _ := NormalizeAllocations(map[string]float64{"A": -2, "B": -2, "C": -2}, 50)

	for name, v := range alloc {
		assert.Equal(t, 0.0, v, name)
		assert.False(t, math.IsNaN(v))
	}
}

func TestNormalizeAllocations_Empty(t *testing.T) {
	alloc, shift := NormalizeAllocations(nil, 50)
	assert.Empty(t, alloc)
	assert.Zero(t, shift)
}

func TestNormalizeAllocations_Invariants(t *testing.T) {
	cases := []map[string]float64{
		{"A": 5, "B": 2.5, "C": -5, "D": 0.5},
		{"A": -1, "B": -0.5},
		{"A": 0.5},
		{"A": 3, "B": 3, "C": 3},
		{"A": -5, "B": 5, "C": 1, "D": -2.5, "E": 4.5},
	}
	for _, scores := range cases {
		alloc, _ := NormalizeAllocations(scores, 50)
		for name, v := range alloc {
			assert.GreaterOrEqual(t, v, 0.0, "asset %s in %v", name, scores)
		}
		assert.InDelta(t, 50.0, sum(alloc), 1e-9, "scores %v", scores)
	}
}

func TestNormalizeAllocations_Idempotent(t *testing.T) {
	scores := map[string]float64{"S&P500": 2.5, "NASDAQ100": -1, "CAC40": 0.5, "EMERGING": 4, "WORLD": 1.5}
	first, _ := NormalizeAllocations(scores, 50)
	for i := 0; i < 20; i++ {
		again, _ := NormalizeAllocations(scores, 50)
		for k, v := range first {
			if again[k] != v {
				t.Fatalf("run %d: %s changed from %v to %v", i, k, v, again[k])
			}
		}
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		alloc float64
		band  model.AllocationBand
	}{
		{0, model.BandLow},
		{3.99, model.BandLow},
		{4, model.BandModerate},
		{5.99, model.BandModerate},
		{6, model.BandElevated},
		{10, model.BandElevated},
		{10.01, model.BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, Band(tt.alloc), "alloc=%v", tt.alloc)
	}
}
