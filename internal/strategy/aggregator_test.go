package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCADashboard/internal/model"
)

func flatThenLast(n int, flat, last float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = flat
	}
	values[n-1] = last
	return values
}

func TestAggregateSignals_DropBelowAverages(t *testing.T) {
	windows := []model.Window{{Label: "Weekly", Size: 5}, {Label: "Monthly", Size: 21}}
	values := flatThenLast(25, 100, 90)

	signals, composite := AggregateSignals(values, windows, ThresholdFromPercent(10))

	require.Len(t, signals, 2)
	assert.Equal(t, 2.0, composite)
	for _, s := range signals {
		assert.True(t, s.Evaluated, s.Window.Label)
		assert.Equal(t, model.Favorable, s.Signal.Direction, s.Window.Label)
		assert.Less(t, s.Deviation, 0.0)
	}
	assert.InDelta(t, 98.0, signals[0].Mean, 1e-9)
}

func TestAggregateSignals_SkipsShortWindows(t *testing.T) {
	windows := []model.Window{{Label: "Weekly", Size: 5}, {Label: "Annual", Size: 252}}
	values := flatThenLast(10, 100, 130)

	signals, composite := AggregateSignals(values, windows, 0.10)

	assert.True(t, signals[0].Evaluated)
	assert.Equal(t, model.Unfavorable, signals[0].Signal.Direction)
	assert.False(t, signals[1].Evaluated)
	assert.Zero(t, signals[1].Signal.Weight)
	assert.Equal(t, -1.0, composite)
}

func TestAggregateSignals_ZeroMeanIsSkipped(t *testing.T) {
	windows := []model.Window{{Label: "Weekly", Size: 3}}
	signals, composite := AggregateSignals([]float64{0, 0, 0}, windows, 0.10)

	assert.False(t, signals[0].Evaluated)
	assert.Equal(t, 0.0, composite)
}

func TestAggregateSignals_EmptySeries(t *testing.T) {
	signals, composite := AggregateSignals(nil, DefaultWindows, 0.10)

	assert.Len(t, signals, len(DefaultWindows))
	assert.Equal(t, 0.0, composite)
	assert.Equal(t, 0, FavorableCount(signals))
}

func TestAggregateSignals_NeutralBand(t *testing.T) {
	windows := []model.Window{{Label: "Weekly", Size: 5}}
	// mean = 101, last = 105: deviation ~ 3.96%, under a 10% tolerance
	signals, composite := AggregateSignals([]float64{100, 100, 100, 100, 105}, windows, 0.10)

	assert.Equal(t, model.Neutral, signals[0].Signal.Direction)
	assert.Equal(t, 0.5, composite)
}

func TestOverweight(t *testing.T) {
	tests := []struct {
		favorable int
		level     model.OverweightLevel
	}{
		{0, model.OverweightNone},
		{1, model.OverweightWeak},
		{2, model.OverweightModerate},
		{3, model.OverweightModerate},
		{4, model.OverweightStrong},
		{5, model.OverweightStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, Overweight(tt.favorable), "favorable=%d", tt.favorable)
	}
}
