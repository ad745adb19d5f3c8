package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/store"
	"market-analyst/internal/types"
)

// Service fetches headlines through a provider chain with caching. The
// RSS feed is tried first; scraping only runs when the feed yields
// nothing.
type Service struct {
	providers []interfaces.NewsProvider
	cache     *headlineCache
}

var _ interfaces.NewsProvider = (*Service)(nil)

// ServiceConfig configures the news service
type ServiceConfig struct {
	CacheTTL time.Duration // how long fetched headlines are reused
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		CacheTTL: 1 * time.Hour,
	}
}

// headlineCache stores fetched headlines temporarily
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	headlines []types.Headline
	timestamp time.Time
}

// newHeadlineCache creates a new cache
func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	// Start cleanup goroutine
	go cache.cleanupLoop()

	return cache
}

// get retrieves cached headlines if still valid
func (c *headlineCache) get(symbol string) ([]types.Headline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}

	return entry.headlines, true
}

// set stores headlines in cache
func (c *headlineCache) set(symbol string, headlines []types.Headline) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		headlines: headlines,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes expired entries
func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates a news service over the given providers, tried in
// order
func NewService(cfg *ServiceConfig, providers ...interfaces.NewsProvider) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}

	return &Service{
		providers: providers,
		cache:     newHeadlineCache(cfg.CacheTTL),
	}
}

// FromConfig builds the standard Google News + site scraper stack
func FromConfig(cfg *store.Config) *Service {
	google := NewGoogleNews(GoogleNewsConfig{
		MaxArticles:  cfg.News.MaxArticles,
		LookbackDays: cfg.News.LookbackDays,
		CompanyNames: cfg.News.CompanyNames,
	})
	scraper := NewSiteScraper(cfg.News.MaxArticles, 15*time.Second)

	return NewService(&ServiceConfig{
		CacheTTL: time.Duration(cfg.News.CacheMinutes) * time.Minute,
	}, google, scraper)
}

func (s *Service) Name() string { return "news" }

// Headlines returns recent headlines for a symbol, cached or fresh. An
// empty set is a valid outcome; an error means every provider failed.
func (s *Service) Headlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached headlines", "symbol", symbol, "count", len(cached))
		return cached, nil
	}

	var (
		errs       []error
		sawSuccess bool
	)

	for _, p := range s.providers {
		headlines, err := p.Headlines(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "News provider failed", "provider", p.Name(), "symbol", symbol, "error", err)
			errs = append(errs, err)
			continue
		}
		sawSuccess = true
		if len(headlines) > 0 {
			s.cache.set(symbol, headlines)
			logger.Info(ctx, "Headlines fetched", "symbol", symbol, "provider", p.Name(), "count", len(headlines))
			return headlines, nil
		}
		logger.Debug(ctx, "Provider returned no headlines, trying next", "provider", p.Name(), "symbol", symbol)
	}

	if sawSuccess {
		// Nothing published recently; cache the empty result too so the
		// next poll does not refetch.
		s.cache.set(symbol, nil)
		return nil, nil
	}

	return nil, fmt.Errorf("all news providers failed for %s: %w", symbol, errors.Join(errs...))
}

// RefreshHeadlines bypasses the cache and refetches
func (s *Service) RefreshHeadlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	s.cache.mu.Lock()
	delete(s.cache.data, symbol)
	s.cache.mu.Unlock()

	return s.Headlines(ctx, symbol)
}

// ClearCache removes all cached headlines
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedSymbols returns the symbols with cached headlines
func (s *Service) CachedSymbols() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	symbols := make([]string, 0, len(s.cache.data))
	for symbol := range s.cache.data {
		symbols = append(symbols, symbol)
	}
	return symbols
}
