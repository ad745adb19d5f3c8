package interfaces

import (
	"context"

	"market-analyst/internal/types"
)

type NewsProvider interface {
	Headlines(ctx context.Context, symbol string) ([]types.Headline, error)
	Name() string
}
