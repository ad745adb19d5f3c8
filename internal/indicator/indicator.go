package indicator

import (
	"math"

	"market-analyst/internal/ta"
	"market-analyst/internal/types"
)

// Config fixes the lookback windows. Zero values fall back to the
// conventional defaults so a partially filled config still works.
type Config struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBWindow   int
	BBStdDev   float64
	ShortMA    int
	LongMA     int
}

func (c Config) withDefaults() Config {
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = 14
	}
	if c.MACDFast <= 0 {
		c.MACDFast = 12
	}
	if c.MACDSlow <= 0 {
		c.MACDSlow = 26
	}
	if c.MACDSignal <= 0 {
		c.MACDSignal = 9
	}
	if c.BBWindow <= 0 {
		c.BBWindow = 20
	}
	if c.BBStdDev <= 0 {
		c.BBStdDev = 2.0
	}
	if c.ShortMA <= 0 {
		c.ShortMA = 20
	}
	if c.LongMA <= 0 {
		c.LongMA = 50
	}
	return c
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Snapshot validates the series and computes every indicator its length
// supports. Indicators short of their window come back invalid; an empty
// series yields an all-invalid snapshot. Only malformed input errors.
func (e *Engine) Snapshot(series *types.PriceSeries) (*types.IndicatorSnapshot, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	snap := &types.IndicatorSnapshot{Symbol: series.Symbol}
	if last, ok := series.Last(); ok {
		snap.AsOf = last.Time
		snap.Close = last.Close
	}

	closes := series.Closes()
	snap.RSI = metric(ta.RSI(closes, e.cfg.RSIPeriod))

	line, sig, hist := ta.MACD(closes, e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal)
	snap.MACD = metric(line)
	snap.MACDSignal = metric(sig)
	snap.MACDHist = metric(hist)

	mid, up, low := ta.Bollinger(closes, e.cfg.BBWindow, e.cfg.BBStdDev)
	snap.BandMid = metric(mid)
	snap.BandUpper = metric(up)
	snap.BandLower = metric(low)

	snap.ShortMA = metric(ta.SMA(closes, e.cfg.ShortMA))
	snap.LongMA = metric(ta.SMA(closes, e.cfg.LongMA))
	if snap.ShortMA.Valid && snap.LongMA.Valid {
		nowDiff := snap.ShortMA.Value - snap.LongMA.Value
		switch {
		case nowDiff > 0:
			snap.Trend = types.DirBullish
		case nowDiff < 0:
			snap.Trend = types.DirBearish
		default:
			snap.Trend = types.DirNeutral
		}
		if len(closes) > e.cfg.LongMA {
			prev := closes[:len(closes)-1]
			prevDiff := ta.SMA(prev, e.cfg.ShortMA) - ta.SMA(prev, e.cfg.LongMA)
			snap.CrossedAt = (prevDiff <= 0 && nowDiff > 0) || (prevDiff >= 0 && nowDiff < 0)
		}
	}

	return snap, nil
}

func metric(v float64) types.Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return types.Metric{}
	}
	return types.Metric{Value: v, Valid: true}
}
