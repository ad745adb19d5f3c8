package rulebased

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/narrative"
	"market-analyst/internal/types"
)

// Narrator composes a plain-language summary from the report itself,
// with no external calls. It is the default and the fallback for the
// LLM narrators.
type Narrator struct{}

var _ interfaces.Narrator = (*Narrator)(nil)

func New() *Narrator {
	return &Narrator{}
}

func (n *Narrator) Summarize(ctx context.Context, report *types.Report) (string, error) {
	if report == nil || report.Recommendation == nil {
		return "", errors.New("nothing to summarize")
	}

	rec := report.Recommendation
	confidence := narrative.FormatConfidence(rec.Confidence)

	var b strings.Builder
	switch rec.Action {
	case types.ActionBuy:
		fmt.Fprintf(&b, "%s shows strong buying signals with %s%% confidence. ", rec.Symbol, confidence)
	case types.ActionSell:
		fmt.Fprintf(&b, "%s indicates selling pressure with %s%% confidence. ", rec.Symbol, confidence)
	default:
		fmt.Fprintf(&b, "%s suggests holding position with mixed signals. ", rec.Symbol)
	}

	fmt.Fprintf(&b, "The stock is in a %s trend with %s news sentiment. ",
		narrative.TrendLabel(report.Indicators), narrative.SentimentLabel(report.Sentiment))

	switch {
	case rec.Confidence > 80:
		b.WriteString("High confidence in this analysis.")
	case rec.Confidence < 60:
		b.WriteString("Lower confidence - proceed with caution.")
	default:
		b.WriteString("Moderate confidence in this recommendation.")
	}

	return b.String(), nil
}
