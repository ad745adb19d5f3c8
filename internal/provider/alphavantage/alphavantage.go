package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-analyst/internal/api"
	"market-analyst/internal/types"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Client fetches quotes and daily history from the Alpha Vantage REST API.
type Client struct {
	api     *api.Client
	apiKey  string
	baseURL string
}

// Option configures the Alpha Vantage client
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.api = api.NewClient(api.WithTimeout(timeout))
	}
}

// NewClient creates an Alpha Vantage client. The key comes from
// https://www.alphavantage.co/support/#api-key (free tier).
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		api:     api.NewClient(api.WithTimeout(15 * time.Second)),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "alphavantage" }

// apiNotice carries the out-of-band messages Alpha Vantage returns with
// HTTP 200: rate-limit notes, bad-key information, unknown symbols.
type apiNotice struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
	ErrMessage  string `json:"Error Message"`
}

func (n apiNotice) err() error {
	switch {
	case n.ErrMessage != "":
		return fmt.Errorf("alphavantage: %s", n.ErrMessage)
	case n.Note != "":
		return fmt.Errorf("alphavantage rate limited: %s", n.Note)
	case n.Information != "":
		return fmt.Errorf("alphavantage: %s", n.Information)
	}
	return nil
}

type globalQuoteResponse struct {
	apiNotice
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Quote fetches the latest global quote for a symbol
func (c *Client) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	endpoint := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	resp, err := c.api.GET(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("alphavantage quote %s: %w", symbol, err)
	}

	var parsed globalQuoteResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, fmt.Errorf("alphavantage quote %s: %w", symbol, err)
	}
	if err := parsed.err(); err != nil {
		return nil, err
	}

	q := parsed.GlobalQuote
	if q.Price == "" {
		return nil, fmt.Errorf("alphavantage: no quote data for %s", symbol)
	}

	price, err := strconv.ParseFloat(q.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: bad price %q for %s: %w", q.Price, symbol, err)
	}

	asOf := time.Now().UTC()
	// Alpha Vantage only reports the trading day, not an exact time.
	if day, err := time.Parse("2006-01-02", q.LatestDay); err == nil {
		asOf = day
	}

	return &types.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        parseFloat(q.Change),
		ChangePercent: parseFloat(strings.TrimSuffix(q.ChangePercent, "%")),
		AsOf:          asOf,
	}, nil
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailySeriesResponse struct {
	apiNotice
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

// DailySeries fetches up to days daily bars, oldest first
func (c *Client) DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error) {
	outputSize := "compact" // last 100 bars
	if days > 100 {
		outputSize = "full"
	}

	endpoint := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), outputSize, url.QueryEscape(c.apiKey))

	req := api.NewRequest("GET", endpoint).WithContext(ctx)
	resp, err := c.api.DoWithRetry(req, api.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("alphavantage daily %s: %w", symbol, err)
	}

	var parsed dailySeriesResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, fmt.Errorf("alphavantage daily %s: %w", symbol, err)
	}
	if err := parsed.err(); err != nil {
		return nil, err
	}
	if len(parsed.Series) == 0 {
		return nil, fmt.Errorf("alphavantage: no daily data for %s", symbol)
	}

	// ISO dates sort chronologically as strings.
	dates := make([]string, 0, len(parsed.Series))
	for d := range parsed.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	bars := make([]types.PriceBar, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		raw := parsed.Series[d]
		bars = append(bars, types.PriceBar{
			Time:   day,
			Open:   parseFloat(raw.Open),
			High:   parseFloat(raw.High),
			Low:    parseFloat(raw.Low),
			Close:  parseFloat(raw.Close),
			Volume: parseFloat(raw.Volume),
		})
	}

	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	return &types.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
