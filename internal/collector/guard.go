package collector

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"DCADashboard/internal/model"
)

// Guard rate-limits calls to one provider and stops calling it for a while
// after repeated failures.
type Guard struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewGuard allows rps requests per second with a burst of one; rps <= 0
// disables limiting.
func NewGuard(name string, rps float64) *Guard {
	st := gobreaker.Settings{
		Name:     name,
		Interval: 5 * time.Minute,
		Timeout:  2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoCredential) || errors.Is(err, context.Canceled)
		},
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Guard{
		cb:      gobreaker.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Do waits for a rate slot and runs fn through the circuit breaker.
func (g *Guard) Do(ctx context.Context, fn func() ([]model.Observation, error)) ([]model.Observation, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := g.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	obs, _ := res.([]model.Observation)
	return obs, nil
}

// State reports the breaker state, e.g. "closed" or "open".
func (g *Guard) State() string {
	return g.cb.State().String()
}

// GuardedPriceFetcher wraps a PriceFetcher with a Guard.
type GuardedPriceFetcher struct {
	next  PriceFetcher
	guard *Guard
}

func NewGuardedPriceFetcher(next PriceFetcher, rps float64) *GuardedPriceFetcher {
	return &GuardedPriceFetcher{next: next, guard: NewGuard(next.Name(), rps)}
}

func (g *GuardedPriceFetcher) Name() string { return g.next.Name() }

func (g *GuardedPriceFetcher) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.Observation, error) {
	return g.guard.Do(ctx, func() ([]model.Observation, error) {
		return g.next.FetchDailyCloses(ctx, symbol, days)
	})
}

// GuardedMacroFetcher wraps a MacroFetcher with a Guard.
type GuardedMacroFetcher struct {
	next  MacroFetcher
	guard *Guard
}

func NewGuardedMacroFetcher(next MacroFetcher, rps float64) *GuardedMacroFetcher {
	return &GuardedMacroFetcher{next: next, guard: NewGuard(next.Name(), rps)}
}

func (g *GuardedMacroFetcher) Name() string { return g.next.Name() }

func (g *GuardedMacroFetcher) FetchMacroSeries(ctx context.Context, code string, since time.Time) ([]model.Observation, error) {
	return g.guard.Do(ctx, func() ([]model.Observation, error) {
		return g.next.FetchMacroSeries(ctx, code, since)
	})
}
