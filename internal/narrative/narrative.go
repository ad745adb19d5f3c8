package narrative

import (
	"context"
	"fmt"
	"strconv"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/types"
)

// polarityCut separates positive and negative sentiment labels. Matches
// the default fusion cut so the narrative agrees with the vote.
const polarityCut = 0.2

// TrendLabel renders the moving-average trend for prose.
func TrendLabel(ind *types.IndicatorSnapshot) string {
	if ind == nil {
		return "sideways"
	}
	switch ind.Trend {
	case types.DirBullish:
		return "upward"
	case types.DirBearish:
		return "downward"
	default:
		return "sideways"
	}
}

// SentimentLabel renders aggregate news sentiment for prose.
func SentimentLabel(s *types.SentimentSignal) string {
	if s == nil || s.Articles == 0 {
		return "neutral"
	}
	switch {
	case s.Polarity >= polarityCut:
		return "positive"
	case s.Polarity <= -polarityCut:
		return "negative"
	default:
		return "neutral"
	}
}

// FormatConfidence renders a confidence percentage without trailing zeros.
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// Prompt renders a report as the instruction an LLM narrator receives.
func Prompt(report *types.Report) string {
	rsi := "N/A"
	if report.Indicators != nil && report.Indicators.RSI.Valid {
		rsi = fmt.Sprintf("%.1f", report.Indicators.RSI.Value)
	}

	action := types.ActionHold
	confidence := 0.0
	if report.Recommendation != nil {
		action = report.Recommendation.Action
		confidence = report.Recommendation.Confidence
	}

	return fmt.Sprintf(`Analyze the stock %s and provide a concise investment summary:

Technical analysis: RSI=%s
Trend: %s
News sentiment: %s
Recommendation: %s with %s%% confidence

Provide a 2-3 sentence summary with key insights and risks. Do not give financial advice beyond the stated recommendation.`,
		report.Symbol, rsi, TrendLabel(report.Indicators),
		SentimentLabel(report.Sentiment), action, FormatConfidence(confidence))
}

// Fallback tries a primary narrator and falls back to a backup when the
// primary fails. LLM narrators degrade to the rule-based one this way.
type Fallback struct {
	primary interfaces.Narrator
	backup  interfaces.Narrator
}

var _ interfaces.Narrator = (*Fallback)(nil)

func WithFallback(primary, backup interfaces.Narrator) *Fallback {
	return &Fallback{primary: primary, backup: backup}
}

func (f *Fallback) Summarize(ctx context.Context, report *types.Report) (string, error) {
	summary, err := f.primary.Summarize(ctx, report)
	if err == nil {
		return summary, nil
	}
	logger.Warn(ctx, "Primary narrator failed, using fallback",
		"symbol", report.Symbol,
		"error", err,
	)
	return f.backup.Summarize(ctx, report)
}
