package model

// Direction classifies a price deviation against its trailing average.
type Direction string

const (
	Favorable   Direction = "FAVORABLE"
	Neutral     Direction = "NEUTRAL"
	Unfavorable Direction = "UNFAVORABLE"
)

// Signal is the scored outcome of one (asset, window) pair.
type Signal struct {
	Weight    float64   `json:"weight"`
	Direction Direction `json:"direction"`
}

// Window is a named lookback expressed as a count of trailing observations.
type Window struct {
	Label string `json:"label" yaml:"label" validate:"required"`
	Size  int    `json:"size" yaml:"size" validate:"gt=0"`
}

// WindowSignal reports one window of an asset. Evaluated is false when the
// history was too short or the window mean was degenerate.
type WindowSignal struct {
	Window    Window  `json:"window"`
	Evaluated bool    `json:"evaluated"`
	Mean      float64 `json:"mean,omitempty"`
	Deviation float64 `json:"deviation,omitempty"`
	Signal    Signal  `json:"signal"`
}

// Mark draws the window as one glyph: ▼ below the mean, = inside the band,
// ▲ above it and · when the window was not evaluated.
func (w WindowSignal) Mark() string {
	if !w.Evaluated {
		return "·"
	}
	switch w.Signal.Direction {
	case Favorable:
		return "▼"
	case Neutral:
		return "="
	case Unfavorable:
		return "▲"
	}
	return "·"
}

// OverweightLevel expresses how many windows currently favour buying.
type OverweightLevel string

const (
	OverweightNone     OverweightLevel = "NONE"
	OverweightWeak     OverweightLevel = "WEAK"
	OverweightModerate OverweightLevel = "MODERATE"
	OverweightStrong   OverweightLevel = "STRONG"
)

// AllocationBand buckets an allocation percentage for display.
type AllocationBand string

const (
	BandLow      AllocationBand = "LOW"
	BandModerate AllocationBand = "MODERATE"
	BandElevated AllocationBand = "ELEVATED"
	BandHigh     AllocationBand = "HIGH"
)
