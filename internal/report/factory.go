package report

import (
	"time"

	"market-analyst/internal/interfaces"
)

var defaultSummarizer interfaces.DailySummarizer = &dailySummarizer{}

// SetDefaultSummarizer swaps the package-level summarizer, usually for
// the observability-wrapped one.
func SetDefaultSummarizer(summarizer interfaces.DailySummarizer) {
	defaultSummarizer = summarizer
}

// NewSummarizer builds a summarizer writing CSVs under dir. An empty dir
// falls back to ANALYST_REPORT_DIR, then "reports".
func NewSummarizer(dir string) interfaces.DailySummarizer {
	return &dailySummarizer{reportDir: dir}
}

func SummarizeDay(t time.Time) (string, error) {
	return defaultSummarizer.SummarizeDay(t)
}

func SummarizeToday() (string, error) {
	return defaultSummarizer.SummarizeToday()
}

func ShouldRunNow() (bool, string) {
	return defaultSummarizer.ShouldRunNow()
}
