package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"market-analyst/internal/store"
	"market-analyst/internal/types"
)

type fakeProvider struct {
	name        string
	quote       *types.Quote
	series      *types.PriceSeries
	err         error
	quoteCalls  int
	seriesCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	f.quoteCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakeProvider) DailySeries(ctx context.Context, symbol string, days int) (*types.PriceSeries, error) {
	f.seriesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func TestChainFallsBackToNextProvider(t *testing.T) {
	failing := &fakeProvider{name: "primary", err: errors.New("rate limited")}
	working := &fakeProvider{
		name:  "fallback",
		quote: &types.Quote{Symbol: "AAPL", Price: 186.40},
	}

	chain := NewChain(failing, working)

	quote, err := chain.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if quote.Price != 186.40 {
		t.Errorf("Expected fallback quote, got %f", quote.Price)
	}
	if failing.quoteCalls != 1 {
		t.Errorf("Expected primary to be tried once, got %d", failing.quoteCalls)
	}
	if working.quoteCalls != 1 {
		t.Errorf("Expected fallback to be tried once, got %d", working.quoteCalls)
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	first := &fakeProvider{
		name:   "first",
		series: &types.PriceSeries{Symbol: "AAPL"},
	}
	second := &fakeProvider{name: "second"}

	chain := NewChain(first, second)

	if _, err := chain.DailySeries(context.Background(), "AAPL", 30); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second.seriesCalls != 0 {
		t.Errorf("Expected second provider untouched, got %d calls", second.seriesCalls)
	}
}

func TestChainAllProvidersFail(t *testing.T) {
	a := &fakeProvider{name: "a", err: errors.New("down")}
	b := &fakeProvider{name: "b", err: errors.New("also down")}

	chain := NewChain(a, b)

	_, err := chain.Quote(context.Background(), "TSLA")
	if err == nil {
		t.Fatal("Expected error when every provider fails")
	}
	if !strings.Contains(err.Error(), "TSLA") {
		t.Errorf("Expected symbol in error, got %v", err)
	}
	if !errors.Is(err, a.err) || !errors.Is(err, b.err) {
		t.Errorf("Expected joined provider errors, got %v", err)
	}
}

func TestChainName(t *testing.T) {
	chain := NewChain(&fakeProvider{name: "alphavantage"}, &fakeProvider{name: "yahoo"})
	if chain.Name() != "alphavantage+yahoo" {
		t.Errorf("Expected alphavantage+yahoo, got %s", chain.Name())
	}
}

func TestChainHonorsContextCancellation(t *testing.T) {
	slow := &fakeProvider{name: "slow", err: errors.New("down")}
	next := &fakeProvider{name: "next", quote: &types.Quote{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(slow, next)
	if _, err := chain.Quote(ctx, "AAPL"); err == nil {
		t.Fatal("Expected context error")
	}
	if next.quoteCalls != 0 {
		t.Errorf("Expected no call after cancellation, got %d", next.quoteCalls)
	}
}

func TestFromConfigYahooOnly(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Provider.Primary = "YAHOO"

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name() != "yahoo" {
		t.Errorf("Expected yahoo provider, got %s", p.Name())
	}
}

func TestFromConfigAlphaVantageRequiresKey(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Provider.Primary = "ALPHAVANTAGE"
	t.Setenv(cfg.Provider.APIKeyEnv, "")

	if _, err := FromConfig(cfg); err == nil {
		t.Fatal("Expected error without API key")
	}

	t.Setenv(cfg.Provider.APIKeyEnv, "testkey")
	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected no error with key, got %v", err)
	}
	if p.Name() != "alphavantage" {
		t.Errorf("Expected alphavantage provider, got %s", p.Name())
	}
}

func TestFromConfigAutoBuildsChain(t *testing.T) {
	cfg := store.DefaultConfig()
	t.Setenv(cfg.Provider.APIKeyEnv, "testkey")

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name() != "alphavantage+yahoo" {
		t.Errorf("Expected chained providers, got %s", p.Name())
	}

	t.Setenv(cfg.Provider.APIKeyEnv, "")
	p, err = FromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name() != "yahoo" {
		t.Errorf("Expected yahoo without key, got %s", p.Name())
	}
}
