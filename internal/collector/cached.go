package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"DCADashboard/internal/cache"
	"DCADashboard/internal/logger"
	"DCADashboard/internal/model"
)

// CachedPriceFetcher serves repeated requests for the same symbol from a
// BytesCache until the TTL expires. Cache failures fall through to the
// provider.
type CachedPriceFetcher struct {
	next  PriceFetcher
	cache cache.BytesCache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedPriceFetcher(next PriceFetcher, c cache.BytesCache, ttl time.Duration, log *logger.Logger) *CachedPriceFetcher {
	return &CachedPriceFetcher{next: next, cache: c, ttl: ttl, log: log}
}

func (c *CachedPriceFetcher) Name() string { return c.next.Name() }

func (c *CachedPriceFetcher) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.Observation, error) {
	key := fmt.Sprintf("price:%s:%s:%d", c.next.Name(), symbol, days)
	if obs, ok := cacheLookup(ctx, c.cache, c.log, key); ok {
		return obs, nil
	}
	obs, err := c.next.FetchDailyCloses(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	cacheStore(ctx, c.cache, c.log, key, obs, c.ttl)
	return obs, nil
}

// CachedMacroFetcher is the macro counterpart of CachedPriceFetcher.
type CachedMacroFetcher struct {
	next  MacroFetcher
	cache cache.BytesCache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedMacroFetcher(next MacroFetcher, c cache.BytesCache, ttl time.Duration, log *logger.Logger) *CachedMacroFetcher {
	return &CachedMacroFetcher{next: next, cache: c, ttl: ttl, log: log}
}

func (c *CachedMacroFetcher) Name() string { return c.next.Name() }

func (c *CachedMacroFetcher) FetchMacroSeries(ctx context.Context, code string, since time.Time) ([]model.Observation, error) {
	key := fmt.Sprintf("macro:%s:%s:%s", c.next.Name(), code, since.Format("2006-01-02"))
	if obs, ok := cacheLookup(ctx, c.cache, c.log, key); ok {
		return obs, nil
	}
	obs, err := c.next.FetchMacroSeries(ctx, code, since)
	if err != nil {
		return nil, err
	}
	cacheStore(ctx, c.cache, c.log, key, obs, c.ttl)
	return obs, nil
}

func cacheLookup(ctx context.Context, c cache.BytesCache, log *logger.Logger, key string) ([]model.Observation, bool) {
	b, ok, err := c.GetBytes(ctx, key)
	if err != nil {
		log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var obs []model.Observation
	if err := json.Unmarshal(b, &obs); err != nil {
		log.Warn("cache entry corrupt", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	return obs, true
}

func cacheStore(ctx context.Context, c cache.BytesCache, log *logger.Logger, key string, obs []model.Observation, ttl time.Duration) {
	b, err := json.Marshal(obs)
	if err != nil {
		return
	}
	if err := c.SetBytes(ctx, key, b, ttl); err != nil {
		log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}
