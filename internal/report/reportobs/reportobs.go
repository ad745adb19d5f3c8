package reportobs

import (
	"context"
	"time"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/trace"
)

type observableSummarizer struct {
	summarizer interfaces.DailySummarizer
}

var _ interfaces.DailySummarizer = (*observableSummarizer)(nil)

func Wrap(summarizer interfaces.DailySummarizer) interfaces.DailySummarizer {
	return &observableSummarizer{
		summarizer: summarizer,
	}
}

func (osum *observableSummarizer) SummarizeDay(t time.Time) (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "report.SummarizeDay")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting daily report generation",
		"date", t.Format("2006-01-02"),
	)

	csvPath, err := osum.summarizer.SummarizeDay(t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Daily report generation failed", err,
			"date", t.Format("2006-01-02"),
		)
		return "", err
	}

	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No decisions found for daily report",
			"date", t.Format("2006-01-02"),
		)
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Daily report generated successfully",
		"date", t.Format("2006-01-02"),
		"csv_path", csvPath,
	)

	return csvPath, nil
}

func (osum *observableSummarizer) SummarizeToday() (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "report.SummarizeToday")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting today's report generation")

	csvPath, err := osum.summarizer.SummarizeToday()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Today's report generation failed", err)
		return "", err
	}

	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No decisions found for today's report")
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Today's report generated successfully",
		"csv_path", csvPath,
	)

	return csvPath, nil
}

func (osum *observableSummarizer) ShouldRunNow() (bool, string) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "report.ShouldRunNow")
	defer span.End()

	shouldRun, csvPath := osum.summarizer.ShouldRunNow()

	logger.DebugSkip(ctx, 1, "Daily report check completed",
		"should_run", shouldRun,
		"csv_path", csvPath,
	)

	return shouldRun, csvPath
}
