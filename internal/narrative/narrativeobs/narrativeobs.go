package narrativeobs

import (
	"context"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/trace"
	"market-analyst/internal/types"
)

// observableNarrator wraps a Narrator with observability (logging & tracing)
type observableNarrator struct {
	narrator interfaces.Narrator
}

// Compile-time interface check
var _ interfaces.Narrator = (*observableNarrator)(nil)

// Wrap wraps a narrator with observability middleware
func Wrap(narrator interfaces.Narrator) interfaces.Narrator {
	return &observableNarrator{
		narrator: narrator,
	}
}

// Summarize generates a report summary with observability
func (on *observableNarrator) Summarize(ctx context.Context, report *types.Report) (string, error) {
	ctx, span := trace.StartSpan(ctx, "narrative.Summarize")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting narrative summary",
		"symbol", report.Symbol,
	)

	summary, err := on.narrator.Summarize(ctx, report)
	if err != nil {
		// Use ErrorWithErrSkip(1) to report the actual caller
		logger.ErrorWithErrSkip(ctx, 1, "Failed to generate narrative summary", err,
			"symbol", report.Symbol,
		)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Narrative summary generated",
		"symbol", report.Symbol,
		"chars", len(summary),
	)

	return summary, nil
}
