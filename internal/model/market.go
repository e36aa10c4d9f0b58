package model

import "time"

// Observation is a single dated value of a price or macro series.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// AssetSeries holds the daily closing prices of one configured asset,
// in chronological order without duplicate dates.
type AssetSeries struct {
	Name         string        `json:"name"`
	Symbol       string        `json:"symbol"`
	Observations []Observation `json:"observations"`
}

// Values returns the observation values in order.
func (s *AssetSeries) Values() []float64 {
	return values(s.Observations)
}

// Last returns the most recent observation, false when the series is empty.
func (s *AssetSeries) Last() (Observation, bool) {
	return last(s.Observations)
}

// MacroSeries holds one macroeconomic indicator. It may be empty when the
// upstream provider is unavailable.
type MacroSeries struct {
	Label        string        `json:"label"`
	Code         string        `json:"code"`
	Observations []Observation `json:"observations"`
}

// Last returns the most recent observation, false when the series is empty.
func (s *MacroSeries) Last() (Observation, bool) {
	return last(s.Observations)
}

// Snapshot is an immutable view of all raw series used for one evaluation.
type Snapshot struct {
	Assets    []AssetSeries `json:"assets"`
	Macro     []MacroSeries `json:"macro"`
	FetchedAt time.Time     `json:"fetched_at"`
}

func values(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Value
	}
	return out
}

func last(obs []Observation) (Observation, bool) {
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[len(obs)-1], true
}
