package provider

import (
	"context"
	"time"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/types"
)

// Cached wraps a provider with a bar cache. Polls within the same day
// reuse cached history, and a provider outage falls back to the last
// good fetch instead of failing the run. Quotes always pass through.
type Cached struct {
	inner interfaces.PriceProvider
	cache interfaces.BarCache
	now   func() time.Time
}

var _ interfaces.PriceProvider = (*Cached)(nil)

// WithCache wraps a provider with a bar cache
func WithCache(inner interfaces.PriceProvider, cache interfaces.BarCache) *Cached {
	return &Cached{inner: inner, cache: cache, now: time.Now}
}

func (c *Cached) Name() string { return c.inner.Name() }

// Quote fetches a live quote from the underlying provider
func (c *Cached) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	return c.inner.Quote(ctx, symbol)
}

// DailySeries serves cached bars when they are fresh, otherwise fetches
// and caches. On fetch failure any cached bars are served stale.
func (c *Cached) DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error) {
	if bars, err := c.cache.Bars(ctx, symbol, days); err == nil && c.fresh(bars, days) {
		logger.Debug(ctx, "Serving cached bars", "symbol", symbol, "bars", len(bars))
		return &types.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: c.now().UTC()}, nil
	}

	series, err := c.inner.DailySeries(ctx, symbol, days)
	if err != nil {
		if bars, cerr := c.cache.Bars(ctx, symbol, days); cerr == nil && len(bars) > 0 {
			logger.Warn(ctx, "Price fetch failed, serving stale cached bars",
				"symbol", symbol, "bars", len(bars), "error", err)
			return &types.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: c.now().UTC()}, nil
		}
		return nil, err
	}

	if err := c.cache.SaveBars(ctx, symbol, series.Bars); err != nil {
		logger.Warn(ctx, "Failed to cache bars", "symbol", symbol, "error", err)
	}
	return series, nil
}

// fresh reports whether cached bars can stand in for a fetch: the newest
// bar is under a day old and the cache covers most of the window. days
// counts calendar days while bars are trading days, roughly 5 per 7.
func (c *Cached) fresh(bars []types.PriceBar, days int) bool {
	if len(bars) == 0 {
		return false
	}
	if len(bars)*3 < days*2 {
		return false
	}
	last := bars[len(bars)-1]
	return c.now().Sub(last.Time) < 24*time.Hour
}
