package analyzerobs

import (
	"context"
	"time"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/trace"
	"market-analyst/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: analyzer,
	}
}

func (oa *observableAnalyzer) Analyze(ctx context.Context, symbol string) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "analyzer.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analysis cycle",
		"symbol", symbol,
	)

	report, err := oa.analyzer.Analyze(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis cycle failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analysis cycle completed",
		"symbol", symbol,
		"action", report.Recommendation.Action,
		"confidence", report.Recommendation.Confidence,
		"signals", len(report.Recommendation.Signals),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}

func (oa *observableAnalyzer) AnalyzeAll(ctx context.Context, symbols []string) ([]*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "analyzer.AnalyzeAll")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting watchlist analysis",
		"symbols", len(symbols),
	)

	reports, err := oa.analyzer.AnalyzeAll(ctx, symbols)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Watchlist analysis failed", err,
			"symbols", len(symbols),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Watchlist analysis completed",
		"symbols", len(symbols),
		"reports", len(reports),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return reports, nil
}
