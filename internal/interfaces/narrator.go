package interfaces

import (
	"context"

	"market-analyst/internal/types"
)

type Narrator interface {
	Summarize(ctx context.Context, report *types.Report) (string, error)
}
