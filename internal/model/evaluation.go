package model

import "time"

// AssetReport is everything a renderer needs to draw one asset card.
type AssetReport struct {
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	Available      bool            `json:"available"`
	LastPrice      float64         `json:"last_price"`
	LastDate       time.Time       `json:"last_date"`
	PercentChange  float64         `json:"percent_change"`
	Windows        []WindowSignal  `json:"windows"`
	FavorableCount int             `json:"favorable_count"`
	CompositeScore float64         `json:"composite_score"`
	Allocation     float64         `json:"allocation"`
	Overweight     OverweightLevel `json:"overweight"`
	Band           AllocationBand  `json:"band"`
	RecentLow      bool            `json:"recent_low"`
	Target         float64         `json:"target,omitempty"`
}

// MacroReading is the latest value of a macro indicator.
type MacroReading struct {
	Label     string    `json:"label"`
	Code      string    `json:"code"`
	Available bool      `json:"available"`
	Value     float64   `json:"value"`
	Date      time.Time `json:"date"`
}

// ArbitrageAlert flags two assets whose percent changes diverged by more
// than Threshold percentage points. A sorts before B.
type ArbitrageAlert struct {
	A         string  `json:"a"`
	B         string  `json:"b"`
	Delta     float64 `json:"delta"`
	Threshold float64 `json:"threshold"`
}

// ArbitrageTier groups the alerts raised at one threshold.
type ArbitrageTier struct {
	Threshold float64          `json:"threshold"`
	Alerts    []ArbitrageAlert `json:"alerts"`
}

// RebalanceAlert flags an asset whose computed allocation drifted from the
// user target by more than Threshold percentage points.
type RebalanceAlert struct {
	Asset      string  `json:"asset"`
	Target     float64 `json:"target"`
	Allocation float64 `json:"allocation"`
	Drift      float64 `json:"drift"`
	Threshold  float64 `json:"threshold"`
}

// Evaluation is the complete output of one evaluation pass.
type Evaluation struct {
	Threshold float64          `json:"threshold"`
	Ceiling   float64          `json:"ceiling"`
	Shift     float64          `json:"shift"`
	Assets    []AssetReport    `json:"assets"`
	Macro     []MacroReading   `json:"macro"`
	Arbitrage []ArbitrageTier  `json:"arbitrage"`
	Rebalance []RebalanceAlert `json:"rebalance"`
	AsOf      time.Time        `json:"as_of"`
}

// Asset returns the report with the given name.
func (e *Evaluation) Asset(name string) (*AssetReport, bool) {
	for i := range e.Assets {
		if e.Assets[i].Name == name {
			return &e.Assets[i], true
		}
	}
	return nil, false
}

// AlertCount returns the total number of arbitrage alerts across tiers.
func (e *Evaluation) AlertCount() int {
	n := 0
	for _, t := range e.Arbitrage {
		n += len(t.Alerts)
	}
	return n
}
