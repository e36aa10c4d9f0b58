package collector

import (
	"context"
	"errors"
	"time"

	"DCADashboard/internal/model"
)

// ErrNoCredential is returned by providers that need an API key when none is configured.
var ErrNoCredential = errors.New("provider credential not configured")

// PriceFetcher retrieves daily closing prices for a symbol.
type PriceFetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.Observation, error)
	Name() string
}

// MacroFetcher retrieves a macroeconomic indicator series.
type MacroFetcher interface {
	FetchMacroSeries(ctx context.Context, code string, since time.Time) ([]model.Observation, error)
	Name() string
}
