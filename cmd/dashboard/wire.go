package main

import (
	"context"
	"time"

	"DCADashboard/internal/cache"
	"DCADashboard/internal/collector"
	"DCADashboard/internal/config"
	"DCADashboard/internal/logger"
	"DCADashboard/internal/store"
)

// components are the long-lived dependencies shared by every command.
type components struct {
	log       *logger.Logger
	store     store.Store
	collector *collector.Collector
	closers   []func() error
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.log.Warn("close failed", logger.Error(err))
		}
	}
}

// build wires store, cache and providers into a collector. Optional
// backends that fail to initialise are replaced by in-process fallbacks.
func build(ctx context.Context, cfg *config.Config, log *logger.Logger, errs collector.ErrorCounter) *components {
	c := &components{log: log}

	c.store = store.NewNoopStore()
	if cfg.Database.SQLitePath != "" {
		st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn("init sqlite store failed, using noop", logger.Error(err))
		} else {
			c.store = st
			c.closers = append(c.closers, st.Close)
		}
	}

	var bc cache.BytesCache = cache.NewTTLCache()
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, using in-memory cache", logger.String("addr", cfg.Cache.RedisAddr), logger.Error(err))
			_ = rc.Close()
		} else {
			bc = rc
			c.closers = append(c.closers, rc.Close)
		}
	}

	var prices collector.PriceFetcher
	var macro collector.MacroFetcher
	switch cfg.DataSource.Provider {
	case "mock":
		mock := &collector.MockFetcher{BasePrice: 100}
		prices, macro = mock, mock
	default:
		yahoo := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
		prices = collector.NewCachedPriceFetcher(
			collector.NewGuardedPriceFetcher(yahoo, cfg.DataSource.RequestsPerSecond),
			bc, cfg.Cache.TTL, log)
		if cfg.DataSource.FREDAPIKey != "" {
			fred := collector.NewFREDFetcher(cfg.DataSource.FREDAPIKey, cfg.Proxy, cfg.DataSource.Timeout)
			macro = collector.NewCachedMacroFetcher(
				collector.NewGuardedMacroFetcher(fred, cfg.DataSource.RequestsPerSecond),
				bc, cfg.Cache.TTL, log)
		} else {
			log.Warn("FRED_API_KEY not set, macro indicators will show N/A")
		}
	}
	log.Info("data source", logger.String("provider", prices.Name()))

	c.collector = collector.NewCollector(prices, macro, c.store, log.With(logger.String("component", "collector")),
		cfg.Assets, cfg.Macro, cfg.Strategy.HistoryDays)
	c.collector.Windows = cfg.Windows
	if errs != nil {
		c.collector.Errors = errs
	}
	return c
}
