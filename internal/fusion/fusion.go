package fusion

import (
	"math"
	"time"

	"market-analyst/internal/types"
)

// Weights holds the per-signal vote weights. A zero weight keeps the
// signal in the output but strips its influence.
type Weights struct {
	RSI       float64
	MACD      float64
	Bollinger float64
	MATrend   float64
	Sentiment float64
}

var DefaultWeights = Weights{RSI: 2.0, MACD: 1.0, Bollinger: 1.0, MATrend: 1.0, Sentiment: 1.0}

// Config tunes the decision rules. Zero values fall back to defaults.
type Config struct {
	Threshold     float64
	RSIOverbought float64
	RSIOversold   float64
	PolarityCut   float64
	Weights       Weights
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = 1.0
	}
	if c.RSIOverbought <= 0 {
		c.RSIOverbought = 70
	}
	if c.RSIOversold <= 0 {
		c.RSIOversold = 30
	}
	if c.PolarityCut <= 0 {
		c.PolarityCut = 0.2
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights
	}
	return c
}

// Engine turns an indicator snapshot plus a sentiment signal into a
// recommendation. It holds no mutable state and is safe for concurrent
// use; identical inputs produce identical decisions.
type Engine struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults(), now: time.Now}
}

// Fuse casts one vote per available signal, sums them and maps the net
// against the threshold. Confidence is the absolute net normalized by the
// maximum the available signals could have produced, as a 0-100 value
// rounded to one decimal.
func (e *Engine) Fuse(snap *types.IndicatorSnapshot, sent *types.SentimentSignal) *types.Recommendation {
	votes := e.votes(snap, sent)

	net, possible := 0.0, 0.0
	for _, v := range votes {
		possible += v.Weight
		switch v.Direction {
		case types.DirBullish:
			net += v.Weight
		case types.DirBearish:
			net -= v.Weight
		}
	}

	action := types.ActionHold
	switch {
	case net > e.cfg.Threshold:
		action = types.ActionBuy
	case net < -e.cfg.Threshold:
		action = types.ActionSell
	}

	confidence := 0.0
	if possible > 0 {
		confidence = math.Round(math.Abs(net)/possible*1000) / 10
	}

	symbol := ""
	if snap != nil {
		symbol = snap.Symbol
	}
	return &types.Recommendation{
		Symbol:      symbol,
		Action:      action,
		Confidence:  confidence,
		Signals:     votes,
		GeneratedAt: e.now().UTC(),
	}
}

// votes lists the contributing signals in a fixed order: rsi, macd,
// bollinger, ma_trend, sentiment. Signals short of data cast no vote at
// all; available-but-neutral signals stay in the list.
func (e *Engine) votes(snap *types.IndicatorSnapshot, sent *types.SentimentSignal) []types.Signal {
	votes := make([]types.Signal, 0, 5)
	w := e.cfg.Weights

	if snap != nil {
		if snap.RSI.Valid {
			dir := types.DirNeutral
			switch {
			case snap.RSI.Value > e.cfg.RSIOverbought:
				dir = types.DirBearish
			case snap.RSI.Value < e.cfg.RSIOversold:
				dir = types.DirBullish
			}
			votes = append(votes, types.Signal{Name: "rsi", Direction: dir, Weight: w.RSI})
		}
		if snap.MACDHist.Valid {
			dir := types.DirNeutral
			switch {
			case snap.MACDHist.Value > 0:
				dir = types.DirBullish
			case snap.MACDHist.Value < 0:
				dir = types.DirBearish
			}
			votes = append(votes, types.Signal{Name: "macd", Direction: dir, Weight: w.MACD})
		}
		if snap.BandUpper.Valid && snap.BandLower.Valid {
			dir := types.DirNeutral
			switch {
			case snap.Close < snap.BandLower.Value:
				dir = types.DirBullish
			case snap.Close > snap.BandUpper.Value:
				dir = types.DirBearish
			}
			votes = append(votes, types.Signal{Name: "bollinger", Direction: dir, Weight: w.Bollinger})
		}
		if snap.Trend != "" {
			votes = append(votes, types.Signal{Name: "ma_trend", Direction: snap.Trend, Weight: w.MATrend})
		}
	}

	if sent != nil && sent.Articles > 0 {
		dir := types.DirNeutral
		switch {
		case sent.Polarity > e.cfg.PolarityCut:
			dir = types.DirBullish
		case sent.Polarity < -e.cfg.PolarityCut:
			dir = types.DirBearish
		}
		votes = append(votes, types.Signal{Name: "sentiment", Direction: dir, Weight: w.Sentiment * sent.Confidence})
	}

	return votes
}
