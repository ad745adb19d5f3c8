package rulebased

import (
	"context"
	"strings"
	"testing"

	"market-analyst/internal/types"
)

func report(action types.Action, confidence float64) *types.Report {
	return &types.Report{
		Symbol: "AAPL",
		Recommendation: &types.Recommendation{
			Symbol:     "AAPL",
			Action:     action,
			Confidence: confidence,
		},
		Indicators: &types.IndicatorSnapshot{Trend: types.DirBullish},
		Sentiment:  &types.SentimentSignal{Polarity: 0.4, Articles: 5},
	}
}

func TestSummarizeBuy(t *testing.T) {
	got, err := New().Summarize(context.Background(), report(types.ActionBuy, 85))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	for _, want := range []string{
		"AAPL shows strong buying signals with 85% confidence",
		"upward trend",
		"positive news sentiment",
		"High confidence",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q, got %q", want, got)
		}
	}
}

func TestSummarizeSell(t *testing.T) {
	got, err := New().Summarize(context.Background(), report(types.ActionSell, 45))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !strings.Contains(got, "selling pressure") {
		t.Errorf("Expected selling pressure phrasing, got %q", got)
	}
	if !strings.Contains(got, "proceed with caution") {
		t.Errorf("Expected caution note for low confidence, got %q", got)
	}
}

func TestSummarizeHold(t *testing.T) {
	got, err := New().Summarize(context.Background(), report(types.ActionHold, 70))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !strings.Contains(got, "holding position with mixed signals") {
		t.Errorf("Expected hold phrasing, got %q", got)
	}
	if !strings.Contains(got, "Moderate confidence") {
		t.Errorf("Expected moderate confidence note, got %q", got)
	}
}

func TestSummarizeNoRecommendation(t *testing.T) {
	if _, err := New().Summarize(context.Background(), &types.Report{Symbol: "AAPL"}); err == nil {
		t.Fatal("Expected error for report without recommendation")
	}
}
