package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/provider/alphavantage"
	"market-analyst/internal/provider/yahoo"
	"market-analyst/internal/store"
	"market-analyst/internal/types"
)

// Chain tries each provider in order until one succeeds. A symbol only
// fails when every provider failed for it.
type Chain struct {
	providers []interfaces.PriceProvider
}

// Compile-time interface check
var _ interfaces.PriceProvider = (*Chain)(nil)

// NewChain creates a provider chain
func NewChain(providers ...interfaces.PriceProvider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Quote returns the first successful quote
func (c *Chain) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	var errs []error
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		quote, err := p.Quote(ctx, symbol)
		if err == nil {
			return quote, nil
		}
		logger.Warn(ctx, "Quote provider failed, trying next", "provider", p.Name(), "symbol", symbol, "error", err)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("all price providers failed for %s: %w", symbol, errors.Join(errs...))
}

// DailySeries returns the first successful daily series
func (c *Chain) DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error) {
	var errs []error
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		series, err := p.DailySeries(ctx, symbol, days)
		if err == nil {
			return series, nil
		}
		logger.Warn(ctx, "Series provider failed, trying next", "provider", p.Name(), "symbol", symbol, "error", err)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("all price providers failed for %s: %w", symbol, errors.Join(errs...))
}

// FromConfig builds the provider stack the config asks for. AUTO uses
// Alpha Vantage with Yahoo as fallback when an API key is configured,
// and Yahoo alone otherwise.
func FromConfig(cfg *store.Config) (interfaces.PriceProvider, error) {
	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	apiKey := os.Getenv(cfg.Provider.APIKeyEnv)

	switch strings.ToUpper(cfg.Provider.Primary) {
	case "ALPHAVANTAGE":
		if apiKey == "" {
			return nil, fmt.Errorf("provider ALPHAVANTAGE requires %s to be set", cfg.Provider.APIKeyEnv)
		}
		return alphavantage.NewClient(apiKey, alphavantage.WithTimeout(timeout)), nil
	case "YAHOO":
		return yahoo.NewClient(yahoo.WithTimeout(timeout)), nil
	default: // AUTO
		if apiKey != "" {
			return NewChain(
				alphavantage.NewClient(apiKey, alphavantage.WithTimeout(timeout)),
				yahoo.NewClient(yahoo.WithTimeout(timeout)),
			), nil
		}
		return yahoo.NewClient(yahoo.WithTimeout(timeout)), nil
	}
}
