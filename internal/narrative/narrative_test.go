package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"market-analyst/internal/types"
)

func TestTrendLabel(t *testing.T) {
	cases := []struct {
		name string
		ind  *types.IndicatorSnapshot
		want string
	}{
		{"nil snapshot", nil, "sideways"},
		{"bullish", &types.IndicatorSnapshot{Trend: types.DirBullish}, "upward"},
		{"bearish", &types.IndicatorSnapshot{Trend: types.DirBearish}, "downward"},
		{"no trend", &types.IndicatorSnapshot{}, "sideways"},
	}
	for _, tc := range cases {
		if got := TrendLabel(tc.ind); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestSentimentLabel(t *testing.T) {
	cases := []struct {
		name string
		s    *types.SentimentSignal
		want string
	}{
		{"nil signal", nil, "neutral"},
		{"no articles", &types.SentimentSignal{}, "neutral"},
		{"positive", &types.SentimentSignal{Polarity: 0.5, Articles: 4}, "positive"},
		{"negative", &types.SentimentSignal{Polarity: -0.3, Articles: 4}, "negative"},
		{"weak polarity", &types.SentimentSignal{Polarity: 0.1, Articles: 4}, "neutral"},
		{"at the cut", &types.SentimentSignal{Polarity: 0.2, Articles: 4}, "positive"},
	}
	for _, tc := range cases {
		if got := SentimentLabel(tc.s); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFormatConfidence(t *testing.T) {
	if got := FormatConfidence(62.5); got != "62.5" {
		t.Errorf("Expected 62.5, got %s", got)
	}
	if got := FormatConfidence(50); got != "50" {
		t.Errorf("Expected 50, got %s", got)
	}
}

func TestPromptIncludesReportFacts(t *testing.T) {
	report := &types.Report{
		Symbol: "AAPL",
		Recommendation: &types.Recommendation{
			Symbol:     "AAPL",
			Action:     types.ActionBuy,
			Confidence: 62.5,
		},
		Indicators: &types.IndicatorSnapshot{
			RSI:   types.Metric{Value: 28.4, Valid: true},
			Trend: types.DirBullish,
		},
		Sentiment: &types.SentimentSignal{Polarity: 0.4, Articles: 5},
	}

	prompt := Prompt(report)
	for _, want := range []string{"AAPL", "RSI=28.4", "upward", "positive", "BUY with 62.5% confidence"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestPromptHandlesMissingPieces(t *testing.T) {
	prompt := Prompt(&types.Report{Symbol: "XYZ"})
	if !strings.Contains(prompt, "RSI=N/A") {
		t.Errorf("Expected RSI=N/A for missing indicators, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "HOLD with 0% confidence") {
		t.Errorf("Expected HOLD default, got:\n%s", prompt)
	}
}

type fakeNarrator struct {
	summary string
	err     error
	calls   int
}

func (f *fakeNarrator) Summarize(ctx context.Context, report *types.Report) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func TestFallbackUsesPrimary(t *testing.T) {
	primary := &fakeNarrator{summary: "primary view"}
	backup := &fakeNarrator{summary: "backup view"}

	got, err := WithFallback(primary, backup).Summarize(context.Background(), &types.Report{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "primary view" {
		t.Errorf("Expected primary summary, got %q", got)
	}
	if backup.calls != 0 {
		t.Errorf("Expected backup untouched, got %d calls", backup.calls)
	}
}

func TestFallbackDegradesToBackup(t *testing.T) {
	primary := &fakeNarrator{err: errors.New("api down")}
	backup := &fakeNarrator{summary: "backup view"}

	got, err := WithFallback(primary, backup).Summarize(context.Background(), &types.Report{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "backup view" {
		t.Errorf("Expected backup summary, got %q", got)
	}
}

func TestFallbackPropagatesBackupError(t *testing.T) {
	primary := &fakeNarrator{err: errors.New("api down")}
	backup := &fakeNarrator{err: errors.New("also down")}

	_, err := WithFallback(primary, backup).Summarize(context.Background(), &types.Report{Symbol: "AAPL"})
	if err == nil {
		t.Fatal("Expected error when both narrators fail")
	}
}
