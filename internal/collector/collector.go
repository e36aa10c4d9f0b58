package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DCADashboard/internal/config"
	"DCADashboard/internal/logger"
	"DCADashboard/internal/model"
	"DCADashboard/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Closes    map[string][]float64
	Macro     map[string][]float64
	Err       map[string]error
	Now       time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, days int) ([]model.Observation, error) {
	if err := m.Err[symbol]; err != nil {
		return nil, err
	}
	if closes, ok := m.Closes[symbol]; ok {
		return m.dated(closes), nil
	}
	return m.dated(generateMockCloses(m.BasePrice, days)), nil
}

func (m *MockFetcher) FetchMacroSeries(_ context.Context, code string, _ time.Time) ([]model.Observation, error) {
	if err := m.Err[code]; err != nil {
		return nil, err
	}
	return m.dated(m.Macro[code]), nil
}

func (m *MockFetcher) dated(values []float64) []model.Observation {
	end := m.Now
	if end.IsZero() {
		end = time.Now()
	}
	end = dayOf(end)
	obs := make([]model.Observation, len(values))
	for i, v := range values {
		obs[i] = model.Observation{Date: end.AddDate(0, 0, i-len(values)+1), Value: v}
	}
	return obs
}

func generateMockCloses(basePrice float64, count int) []float64 {
	if basePrice <= 0 {
		basePrice = 100
	}
	closes := make([]float64, count)
	for i := 0; i < count; i++ {
		closes[i] = basePrice * (1 + float64(i-count/2)*0.001)
	}
	return closes
}

// ErrorCounter receives fetch failures, e.g. a metrics recorder.
type ErrorCounter interface {
	RecordFetchError(provider, kind string)
}

// Collector fetches every configured series into a Snapshot.
type Collector struct {
	Prices      PriceFetcher
	Macro       MacroFetcher
	Store       store.Store
	Errors      ErrorCounter
	Log         *logger.Logger
	Assets      []config.Asset
	Indicators  []config.MacroIndicator
	HistoryDays int
	// Windows widens the price request so the longest lookback is covered.
	Windows []model.Window
	Now     func() time.Time
}

// NewCollector creates a Collector. macro may be nil when no macro provider exists.
func NewCollector(prices PriceFetcher, macro MacroFetcher, st store.Store, log *logger.Logger,
	assets []config.Asset, indicators []config.MacroIndicator, historyDays int) *Collector {
	return &Collector{
		Prices:      prices,
		Macro:       macro,
		Store:       st,
		Log:         log,
		Assets:      assets,
		Indicators:  indicators,
		HistoryDays: historyDays,
		Now:         time.Now,
	}
}

// Collect fetches all assets and macro indicators. A failing series falls
// back to its last stored copy, or is left empty; only cancellation of ctx
// aborts the whole collection.
func (c *Collector) Collect(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		Assets:    make([]model.AssetSeries, 0, len(c.Assets)),
		Macro:     make([]model.MacroSeries, 0, len(c.Indicators)),
		FetchedAt: c.Now(),
	}

	for _, a := range c.Assets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		obs, err := c.Prices.FetchDailyCloses(ctx, a.Symbol, c.sessions())
		obs = c.settle(ctx, store.KindPrice, c.Prices.Name(), a.Symbol, obs, err)
		snap.Assets = append(snap.Assets, model.AssetSeries{Name: a.Name, Symbol: a.Symbol, Observations: obs})
	}

	since := c.Now().AddDate(0, 0, -c.HistoryDays)
	for _, m := range c.Indicators {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		var obs []model.Observation
		err := ErrNoCredential
		provider := "none"
		if c.Macro != nil {
			provider = c.Macro.Name()
			obs, err = c.Macro.FetchMacroSeries(ctx, m.Code, since)
		}
		obs = c.settle(ctx, store.KindMacro, provider, m.Code, obs, err)
		snap.Macro = append(snap.Macro, model.MacroSeries{Label: m.Label, Code: m.Code, Observations: obs})
	}

	return snap, nil
}

// sessions converts the calendar history into an approximate count of
// trading sessions, raised to the longest window plus a 5% margin since a
// calendar year often holds fewer than 252 sessions.
func (c *Collector) sessions() int {
	days := c.HistoryDays * 252 / 365
	for _, w := range c.Windows {
		if need := w.Size + w.Size/20; need > days {
			days = need
		}
	}
	if days < 1 {
		days = 1
	}
	return days
}

// settle persists a successful fetch, or recovers from a failed one using
// the stored copy.
func (c *Collector) settle(ctx context.Context, kind store.Kind, provider, code string, obs []model.Observation, err error) []model.Observation {
	if err == nil {
		if len(obs) > 0 {
			if serr := c.Store.SaveSeries(ctx, kind, code, obs); serr != nil {
				c.Log.Warn("save series failed", logger.String("code", code), logger.Error(serr))
			}
		}
		return obs
	}

	if errors.Is(err, ErrNoCredential) {
		c.Log.Debug("series skipped, no credential", logger.String("kind", string(kind)), logger.String("code", code))
	} else {
		c.Log.Warn("fetch failed", logger.String("provider", provider), logger.String("kind", string(kind)),
			logger.String("code", code), logger.Error(err))
		if c.Errors != nil {
			c.Errors.RecordFetchError(provider, string(kind))
		}
	}

	stored, lerr := c.Store.LoadSeries(ctx, kind, code)
	if lerr != nil {
		if !errors.Is(lerr, store.ErrNotFound) {
			c.Log.Warn("load stored series failed", logger.String("code", code), logger.Error(lerr))
		}
		return nil
	}
	c.Log.Info("using stored series", logger.String("code", code), logger.Int("points", len(stored)))
	return stored
}
