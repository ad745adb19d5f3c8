package providerobs

import (
	"context"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/trace"
	"market-analyst/internal/types"
)

// observableProvider wraps a PriceProvider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.PriceProvider
}

// Compile-time interface check
var _ interfaces.PriceProvider = (*observableProvider)(nil)

// Wrap wraps a price provider with observability middleware
func Wrap(provider interfaces.PriceProvider) interfaces.PriceProvider {
	return &observableProvider{
		provider: provider,
	}
}

func (op *observableProvider) Name() string {
	return op.provider.Name()
}

// Quote fetches a quote with observability
func (op *observableProvider) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "provider.Quote")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "provider", op.provider.Name(), "symbol", symbol)

	quote, err := op.provider.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err, "provider", op.provider.Name(), "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Quote fetched successfully", "symbol", symbol, "price", quote.Price)
	return quote, nil
}

// DailySeries fetches daily bars with observability
func (op *observableProvider) DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error) {
	ctx, span := trace.StartSpan(ctx, "provider.DailySeries")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching daily series", "provider", op.provider.Name(), "symbol", symbol, "days", days)

	series, err := op.provider.DailySeries(ctx, symbol, days)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch daily series", err, "provider", op.provider.Name(), "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Daily series fetched successfully", "symbol", symbol, "bars", len(series.Bars))
	return series, nil
}
