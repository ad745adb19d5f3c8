package interfaces

import (
	"context"

	"market-analyst/internal/types"
)

// RecommendationStore persists analysis outcomes. LatestRecommendation
// returns (nil, nil) when nothing is stored for the symbol.
type RecommendationStore interface {
	SaveRecommendation(ctx context.Context, rec *types.Recommendation) error
	LatestRecommendation(ctx context.Context, symbol string) (*types.Recommendation, error)
	RecommendationHistory(ctx context.Context, symbol string, limit int) ([]types.Recommendation, error)
	Close() error
}

// BarCache stores fetched daily bars so repeated runs inside the same
// session do not refetch. Bars returns up to limit bars, chronological.
type BarCache interface {
	SaveBars(ctx context.Context, symbol string, bars []types.PriceBar) error
	Bars(ctx context.Context, symbol string, limit int) ([]types.PriceBar, error)
}
