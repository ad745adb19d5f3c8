package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-analyst/internal/store"
	"market-analyst/internal/types"
)

type fakeNewsProvider struct {
	name      string
	headlines []types.Headline
	err       error
	calls     int
}

func (f *fakeNewsProvider) Name() string { return f.name }

func (f *fakeNewsProvider) Headlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.headlines, nil
}

func TestHeadlineCache(t *testing.T) {
	cache := newHeadlineCache(1 * time.Second)

	symbol := "AAPL"
	headlines := []types.Headline{
		{Title: "Apple surges on record earnings", Source: "Reuters"},
	}

	// Test set and get
	cache.set(symbol, headlines)

	retrieved, found := cache.get(symbol)
	if !found {
		t.Fatal("Expected to find cached headlines")
	}
	if len(retrieved) != 1 {
		t.Fatalf("Expected 1 headline, got %d", len(retrieved))
	}
	if retrieved[0].Title != headlines[0].Title {
		t.Errorf("Expected title %q, got %q", headlines[0].Title, retrieved[0].Title)
	}

	// Test expiration
	time.Sleep(2 * time.Second)
	_, found = cache.get(symbol)
	if found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newHeadlineCache(100 * time.Millisecond)

	for _, sym := range []string{"AAPL", "MSFT", "TSLA"} {
		cache.set(sym, []types.Headline{{Title: sym + " news"}})
	}

	// Wait for expiration
	time.Sleep(200 * time.Millisecond)

	// Trigger cleanup
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}

func TestServiceUsesFirstProviderWithResults(t *testing.T) {
	primary := &fakeNewsProvider{
		name:      "primary",
		headlines: []types.Headline{{Title: "Apple beats expectations"}},
	}
	fallback := &fakeNewsProvider{name: "fallback"}

	svc := NewService(DefaultServiceConfig(), primary, fallback)

	headlines, err := svc.Headlines(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(headlines) != 1 {
		t.Fatalf("Expected 1 headline, got %d", len(headlines))
	}
	if fallback.calls != 0 {
		t.Errorf("Expected fallback untouched, got %d calls", fallback.calls)
	}
}

func TestServiceFallsBackOnEmptyResults(t *testing.T) {
	primary := &fakeNewsProvider{name: "primary"} // succeeds with nothing
	fallback := &fakeNewsProvider{
		name:      "fallback",
		headlines: []types.Headline{{Title: "Tesla recalls vehicles"}},
	}

	svc := NewService(DefaultServiceConfig(), primary, fallback)

	headlines, err := svc.Headlines(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(headlines) != 1 {
		t.Fatalf("Expected fallback headline, got %d", len(headlines))
	}
	if fallback.calls != 1 {
		t.Errorf("Expected fallback called once, got %d", fallback.calls)
	}
}

func TestServiceEmptyIsNotAnError(t *testing.T) {
	primary := &fakeNewsProvider{name: "primary"}
	fallback := &fakeNewsProvider{name: "fallback"}

	svc := NewService(DefaultServiceConfig(), primary, fallback)

	headlines, err := svc.Headlines(context.Background(), "ORCL")
	if err != nil {
		t.Fatalf("Expected no error for quiet symbol, got %v", err)
	}
	if len(headlines) != 0 {
		t.Errorf("Expected no headlines, got %d", len(headlines))
	}
}

func TestServiceErrorsWhenAllProvidersFail(t *testing.T) {
	a := &fakeNewsProvider{name: "a", err: errors.New("feed down")}
	b := &fakeNewsProvider{name: "b", err: errors.New("blocked")}

	svc := NewService(DefaultServiceConfig(), a, b)

	_, err := svc.Headlines(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Expected error when every provider fails")
	}
	if !errors.Is(err, a.err) || !errors.Is(err, b.err) {
		t.Errorf("Expected joined provider errors, got %v", err)
	}
}

func TestServiceCachesResults(t *testing.T) {
	provider := &fakeNewsProvider{
		name:      "primary",
		headlines: []types.Headline{{Title: "Microsoft announces dividend"}},
	}

	svc := NewService(DefaultServiceConfig(), provider)

	for i := 0; i < 3; i++ {
		if _, err := svc.Headlines(context.Background(), "MSFT"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if provider.calls != 1 {
		t.Errorf("Expected one fetch with cache hits after, got %d calls", provider.calls)
	}
}

func TestRefreshHeadlinesBypassesCache(t *testing.T) {
	provider := &fakeNewsProvider{
		name:      "primary",
		headlines: []types.Headline{{Title: "NVIDIA powers AI rally"}},
	}

	svc := NewService(DefaultServiceConfig(), provider)

	if _, err := svc.Headlines(context.Background(), "NVDA"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.RefreshHeadlines(context.Background(), "NVDA"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if provider.calls != 2 {
		t.Errorf("Expected refresh to refetch, got %d calls", provider.calls)
	}
}

func TestClearCache(t *testing.T) {
	provider := &fakeNewsProvider{
		name:      "primary",
		headlines: []types.Headline{{Title: "Disney parks attendance up"}},
	}

	svc := NewService(DefaultServiceConfig(), provider)

	if _, err := svc.Headlines(context.Background(), "DIS"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := len(svc.CachedSymbols()); got != 1 {
		t.Fatalf("Expected 1 cached symbol, got %d", got)
	}

	svc.ClearCache()

	if got := len(svc.CachedSymbols()); got != 0 {
		t.Errorf("Expected 0 cached symbols after clear, got %d", got)
	}
}

func TestFromConfigBuildsProviderChain(t *testing.T) {
	cfg := store.DefaultConfig()

	svc := FromConfig(cfg)
	if svc == nil {
		t.Fatal("Expected service to be created")
	}
	if len(svc.providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(svc.providers))
	}
	if svc.providers[0].Name() != "googlenews" {
		t.Errorf("Expected googlenews first, got %s", svc.providers[0].Name())
	}
	if svc.providers[1].Name() != "sitescraper" {
		t.Errorf("Expected sitescraper fallback, got %s", svc.providers[1].Name())
	}
}
