package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWatchlist is used when the config file lists no symbols.
var DefaultWatchlist = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"META", "NVDA", "NFLX", "DIS", "ORCL",
}

type Config struct {
	Watchlist   []string `yaml:"watchlist"`
	PollMinutes int      `yaml:"poll_minutes"`
	HistoryDays int      `yaml:"history_days"`
	Workers     int      `yaml:"workers"`

	Provider struct {
		Primary        string `yaml:"primary"` // AUTO, ALPHAVANTAGE or YAHOO
		APIKeyEnv      string `yaml:"api_key_env"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`

	News struct {
		MaxArticles  int               `yaml:"max_articles"`
		LookbackDays int               `yaml:"lookback_days"`
		CacheMinutes int               `yaml:"cache_minutes"`
		CompanyNames map[string]string `yaml:"company_names"`
	} `yaml:"news"`

	Indicators struct {
		RSIPeriod  int     `yaml:"rsi_period"`
		MACDFast   int     `yaml:"macd_fast"`
		MACDSlow   int     `yaml:"macd_slow"`
		MACDSignal int     `yaml:"macd_signal"`
		BBWindow   int     `yaml:"bb_window"`
		BBStdDev   float64 `yaml:"bb_stddev"`
		ShortMA    int     `yaml:"short_ma"`
		LongMA     int     `yaml:"long_ma"`
	} `yaml:"indicators"`

	Sentiment struct {
		SaturationArticles int `yaml:"saturation_articles"`
	} `yaml:"sentiment"`

	Fusion struct {
		Threshold     float64 `yaml:"threshold"`
		RSIOverbought float64 `yaml:"rsi_overbought"`
		RSIOversold   float64 `yaml:"rsi_oversold"`
		PolarityCut   float64 `yaml:"polarity_cut"`
		Weights       struct {
			RSI       float64 `yaml:"rsi"`
			MACD      float64 `yaml:"macd"`
			Bollinger float64 `yaml:"bollinger"`
			MATrend   float64 `yaml:"ma_trend"`
			Sentiment float64 `yaml:"sentiment"`
		} `yaml:"weights"`
	} `yaml:"fusion"`

	Narrative struct {
		Provider    string  `yaml:"provider"` // RULEBASED, OPENAI or CLAUDE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"narrative"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`

	Audit struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"audit"`

	Report struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"report"`
}

// DefaultConfig returns a fully populated configuration. LoadConfig
// unmarshals the file over these values, so absent keys keep defaults.
func DefaultConfig() *Config {
	c := &Config{
		Watchlist:   append([]string(nil), DefaultWatchlist...),
		PollMinutes: 15,
		HistoryDays: 180,
		Workers:     4,
	}
	c.Provider.Primary = "AUTO"
	c.Provider.APIKeyEnv = "ALPHA_VANTAGE_API_KEY"
	c.Provider.TimeoutSeconds = 15
	c.News.MaxArticles = 10
	c.News.LookbackDays = 7
	c.News.CacheMinutes = 60
	c.News.CompanyNames = map[string]string{
		"AAPL":  "Apple Inc",
		"GOOGL": "Alphabet Google",
		"MSFT":  "Microsoft Corporation",
		"AMZN":  "Amazon",
		"TSLA":  "Tesla",
		"META":  "Meta Facebook",
		"NVDA":  "NVIDIA",
		"NFLX":  "Netflix",
		"DIS":   "Disney",
		"ORCL":  "Oracle",
	}
	c.Indicators.RSIPeriod = 14
	c.Indicators.MACDFast = 12
	c.Indicators.MACDSlow = 26
	c.Indicators.MACDSignal = 9
	c.Indicators.BBWindow = 20
	c.Indicators.BBStdDev = 2.0
	c.Indicators.ShortMA = 20
	c.Indicators.LongMA = 50
	c.Sentiment.SaturationArticles = 10
	c.Fusion.Threshold = 1.0
	c.Fusion.RSIOverbought = 70
	c.Fusion.RSIOversold = 30
	c.Fusion.PolarityCut = 0.2
	c.Fusion.Weights.RSI = 2.0
	c.Fusion.Weights.MACD = 1.0
	c.Fusion.Weights.Bollinger = 1.0
	c.Fusion.Weights.MATrend = 1.0
	c.Fusion.Weights.Sentiment = 1.0
	c.Narrative.Provider = "RULEBASED"
	c.Narrative.MaxTokens = 300
	c.Narrative.Temperature = 0.2
	c.Storage.Enabled = true
	c.Storage.Path = "analyst.db"
	c.Audit.Enabled = true
	c.Audit.Dir = "logs/decisions"
	c.Audit.RetentionDays = 30
	c.Report.Enabled = true
	c.Report.Dir = "reports"
	return c
}

func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist cannot be empty")
	}
	if c.PollMinutes <= 0 {
		return fmt.Errorf("poll_minutes must be positive, got %d", c.PollMinutes)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive, got %d", c.HistoryDays)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch strings.ToUpper(c.Provider.Primary) {
	case "AUTO", "ALPHAVANTAGE", "YAHOO":
	default:
		return fmt.Errorf("provider.primary must be 'AUTO', 'ALPHAVANTAGE' or 'YAHOO', got '%s'", c.Provider.Primary)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider.timeout_seconds must be positive, got %d", c.Provider.TimeoutSeconds)
	}
	ind := c.Indicators
	if ind.RSIPeriod <= 0 {
		return fmt.Errorf("indicators.rsi_period must be positive, got %d", ind.RSIPeriod)
	}
	if ind.MACDFast <= 0 || ind.MACDSignal <= 0 {
		return errors.New("indicators.macd_fast and macd_signal must be positive")
	}
	if ind.MACDSlow <= ind.MACDFast {
		return fmt.Errorf("indicators.macd_slow (%d) must exceed macd_fast (%d)", ind.MACDSlow, ind.MACDFast)
	}
	if ind.BBWindow <= 1 {
		return fmt.Errorf("indicators.bb_window must be at least 2, got %d", ind.BBWindow)
	}
	if ind.BBStdDev <= 0 {
		return fmt.Errorf("indicators.bb_stddev must be positive, got %.2f", ind.BBStdDev)
	}
	if ind.ShortMA <= 0 {
		return fmt.Errorf("indicators.short_ma must be positive, got %d", ind.ShortMA)
	}
	if ind.LongMA <= ind.ShortMA {
		return fmt.Errorf("indicators.long_ma (%d) must exceed short_ma (%d)", ind.LongMA, ind.ShortMA)
	}
	if c.Sentiment.SaturationArticles < 1 {
		return fmt.Errorf("sentiment.saturation_articles must be at least 1, got %d", c.Sentiment.SaturationArticles)
	}
	f := c.Fusion
	if f.Threshold <= 0 {
		return fmt.Errorf("fusion.threshold must be positive, got %.2f", f.Threshold)
	}
	if f.RSIOversold >= f.RSIOverbought {
		return fmt.Errorf("fusion.rsi_oversold (%.1f) must be below rsi_overbought (%.1f)", f.RSIOversold, f.RSIOverbought)
	}
	if f.PolarityCut <= 0 || f.PolarityCut >= 1 {
		return fmt.Errorf("fusion.polarity_cut must be in (0, 1), got %.2f", f.PolarityCut)
	}
	for name, w := range map[string]float64{
		"rsi":       f.Weights.RSI,
		"macd":      f.Weights.MACD,
		"bollinger": f.Weights.Bollinger,
		"ma_trend":  f.Weights.MATrend,
		"sentiment": f.Weights.Sentiment,
	} {
		if w < 0 {
			return fmt.Errorf("fusion.weights.%s cannot be negative, got %.2f", name, w)
		}
	}
	switch strings.ToUpper(c.Narrative.Provider) {
	case "", "RULEBASED", "OPENAI", "CLAUDE":
	default:
		return fmt.Errorf("narrative.provider must be 'RULEBASED', 'OPENAI' or 'CLAUDE', got '%s'", c.Narrative.Provider)
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return errors.New("storage.path cannot be empty when storage is enabled")
	}
	if c.Audit.Enabled && c.Audit.Dir == "" {
		return errors.New("audit.dir cannot be empty when audit is enabled")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	if len(c.Watchlist) == 0 {
		c.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}
