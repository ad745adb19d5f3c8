package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "watchlist: [aapl, msft]\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Watchlist; len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Errorf("watchlist not normalized: %v", got)
	}
	if cfg.PollMinutes != 15 {
		t.Errorf("poll_minutes default = %d, want 15", cfg.PollMinutes)
	}
	if cfg.Indicators.RSIPeriod != 14 || cfg.Indicators.MACDSlow != 26 {
		t.Errorf("indicator defaults = %+v", cfg.Indicators)
	}
	if cfg.Indicators.ShortMA != 20 || cfg.Indicators.LongMA != 50 {
		t.Errorf("ma defaults = %d/%d, want 20/50", cfg.Indicators.ShortMA, cfg.Indicators.LongMA)
	}
	if cfg.Sentiment.SaturationArticles != 10 {
		t.Errorf("saturation default = %d, want 10", cfg.Sentiment.SaturationArticles)
	}
	if cfg.Fusion.Weights.RSI != 2.0 || cfg.Fusion.Threshold != 1.0 {
		t.Errorf("fusion defaults = %+v", cfg.Fusion)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Path != "analyst.db" {
		t.Errorf("storage defaults = %+v", cfg.Storage)
	}
}

func TestLoadConfigEmptyWatchlistFallsBack(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "poll_minutes: 5\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Watchlist) != len(DefaultWatchlist) {
		t.Errorf("watchlist = %v, want default list", cfg.Watchlist)
	}
	if cfg.PollMinutes != 5 {
		t.Errorf("poll_minutes = %d, want 5", cfg.PollMinutes)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	body := `
watchlist: [NVDA]
indicators:
  rsi_period: 21
  short_ma: 10
  long_ma: 30
fusion:
  threshold: 2.5
  weights:
    sentiment: 0.5
narrative:
  provider: OPENAI
  model: gpt-4o-mini
`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Indicators.RSIPeriod != 21 {
		t.Errorf("rsi_period = %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.Indicators.ShortMA != 10 || cfg.Indicators.LongMA != 30 {
		t.Errorf("ma windows = %d/%d", cfg.Indicators.ShortMA, cfg.Indicators.LongMA)
	}
	if cfg.Fusion.Threshold != 2.5 {
		t.Errorf("threshold = %v", cfg.Fusion.Threshold)
	}
	if cfg.Fusion.Weights.Sentiment != 0.5 {
		t.Errorf("sentiment weight = %v", cfg.Fusion.Weights.Sentiment)
	}
	// Untouched weights keep defaults.
	if cfg.Fusion.Weights.RSI != 2.0 {
		t.Errorf("rsi weight = %v, want default 2.0", cfg.Fusion.Weights.RSI)
	}
	if cfg.Narrative.Provider != "OPENAI" || cfg.Narrative.Model != "gpt-4o-mini" {
		t.Errorf("narrative = %+v", cfg.Narrative)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"short ma above long": func(c *Config) { c.Indicators.ShortMA = 60 },
		"fast above slow":     func(c *Config) { c.Indicators.MACDFast = 30 },
		"zero threshold":      func(c *Config) { c.Fusion.Threshold = 0 },
		"negative weight":     func(c *Config) { c.Fusion.Weights.MACD = -1 },
		"bad provider":        func(c *Config) { c.Provider.Primary = "BLOOMBERG" },
		"bad narrator":        func(c *Config) { c.Narrative.Provider = "GEMINI" },
		"zero saturation":     func(c *Config) { c.Sentiment.SaturationArticles = 0 },
		"zero workers":        func(c *Config) { c.Workers = 0 },
		"inverted rsi bands":  func(c *Config) { c.Fusion.RSIOversold = 80 },
		"empty storage path":  func(c *Config) { c.Storage.Path = "" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() accepted bad config", name)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}
