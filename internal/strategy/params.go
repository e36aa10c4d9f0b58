package strategy

import "DCADashboard/internal/model"

// DefaultWindows are the lookback windows used when none are configured.
var DefaultWindows = []model.Window{
	{Label: "Weekly", Size: 5},
	{Label: "Monthly", Size: 21},
	{Label: "Quarterly", Size: 63},
	{Label: "Annual", Size: 252},
	{Label: "5 Years", Size: 1260},
}

// DefaultArbitrageThresholds are in percentage points of percent change.
var DefaultArbitrageThresholds = []float64{15, 10, 5}

// Params carries everything an evaluation pass depends on besides the data.
type Params struct {
	Windows []model.Window
	// Threshold is the deviation tolerance as a fraction (0.10 means 10%).
	Threshold float64
	// Ceiling is the share of total capital, in percent, split across assets.
	Ceiling             float64
	ArbitrageThresholds []float64
	// Targets are optional user allocations in percent, keyed by asset name.
	Targets            map[string]float64
	RebalanceThreshold float64
}

// DefaultParams mirrors the stock dashboard settings.
func DefaultParams() Params {
	return Params{
		Windows:             DefaultWindows,
		Threshold:           ThresholdFromPercent(10),
		Ceiling:             50,
		ArbitrageThresholds: DefaultArbitrageThresholds,
		RebalanceThreshold:  15,
	}
}

// ThresholdFromPercent converts a user-facing percentage into the internal fraction.
func ThresholdFromPercent(pct float64) float64 {
	return pct / 100
}

// ThresholdToPercent converts an internal fraction back to a percentage.
func ThresholdToPercent(fraction float64) float64 {
	return fraction * 100
}
