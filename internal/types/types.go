package types

import "time"

// Action is the final call an analysis run makes for a symbol.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Direction is the lean a single contributing signal carries.
type Direction string

const (
	DirBullish Direction = "BULLISH"
	DirBearish Direction = "BEARISH"
	DirNeutral Direction = "NEUTRAL"
)

type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds daily bars in chronological order, most recent last.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s *PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AsOf          time.Time `json:"as_of"`
}

type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// SentimentSignal is the aggregate read over a headline set. Polarity is in
// [-1, 1]; Confidence in [0, 1] grows with article count.
type SentimentSignal struct {
	Polarity   float64 `json:"polarity"`
	Articles   int     `json:"articles"`
	Positive   int     `json:"positive"`
	Negative   int     `json:"negative"`
	Confidence float64 `json:"confidence"`
}

// Metric carries an indicator value plus whether enough history existed to
// compute it. Invalid metrics cast no vote.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

type IndicatorSnapshot struct {
	Symbol     string    `json:"symbol"`
	AsOf       time.Time `json:"as_of"`
	Close      float64   `json:"close"`
	RSI        Metric    `json:"rsi"`
	MACD       Metric    `json:"macd"`
	MACDSignal Metric    `json:"macd_signal"`
	MACDHist   Metric    `json:"macd_hist"`
	BandUpper  Metric    `json:"band_upper"`
	BandMid    Metric    `json:"band_mid"`
	BandLower  Metric    `json:"band_lower"`
	ShortMA    Metric    `json:"short_ma"`
	LongMA     Metric    `json:"long_ma"`
	// Trend is the short MA relative to the long MA; empty when either
	// average is unavailable.
	Trend     Direction `json:"trend,omitempty"`
	CrossedAt bool      `json:"crossed_at"`
}

// Signal is one contributing vote inside a Recommendation.
type Signal struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Weight    float64   `json:"weight"`
}

// Recommendation is the persisted outcome of one analysis run. Values are
// never mutated after creation.
type Recommendation struct {
	Symbol      string    `json:"symbol"`
	Action      Action    `json:"action"`
	Confidence  float64   `json:"confidence"`
	Signals     []Signal  `json:"signals"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Report bundles everything one analysis produced for a symbol.
type Report struct {
	Symbol         string             `json:"symbol"`
	Recommendation *Recommendation    `json:"recommendation"`
	Indicators     *IndicatorSnapshot `json:"indicators"`
	Sentiment      *SentimentSignal   `json:"sentiment"`
	Quote          *Quote             `json:"quote,omitempty"`
	Summary        string             `json:"summary,omitempty"`
}
