package storage

import (
	"context"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/types"
)

// Noop is used when persistence is disabled. Writes are discarded and
// reads report nothing stored.
type Noop struct{}

var (
	_ interfaces.RecommendationStore = (*Noop)(nil)
	_ interfaces.BarCache            = (*Noop)(nil)
)

// NewNoop returns a store that keeps nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) SaveRecommendation(ctx context.Context, rec *types.Recommendation) error {
	return nil
}

func (n *Noop) LatestRecommendation(ctx context.Context, symbol string) (*types.Recommendation, error) {
	return nil, nil
}

func (n *Noop) RecommendationHistory(ctx context.Context, symbol string, limit int) ([]types.Recommendation, error) {
	return nil, nil
}

func (n *Noop) SaveBars(ctx context.Context, symbol string, bars []types.PriceBar) error {
	return nil
}

func (n *Noop) Bars(ctx context.Context, symbol string, limit int) ([]types.PriceBar, error) {
	return nil, nil
}

func (n *Noop) Close() error {
	return nil
}
