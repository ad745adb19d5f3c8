package interfaces

import (
	"context"

	"market-analyst/internal/types"
)

type PriceProvider interface {
	Quote(ctx context.Context, symbol string) (*types.Quote, error)
	DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error)
	Name() string
}
