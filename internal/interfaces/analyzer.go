package interfaces

import (
	"context"

	"market-analyst/internal/types"
)

type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (*types.Report, error)
	AnalyzeAll(ctx context.Context, symbols []string) ([]*types.Report, error)
}
