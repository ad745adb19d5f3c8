package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"market-analyst/internal/analyzer"
	"market-analyst/internal/analyzer/analyzerobs"
	"market-analyst/internal/auditlog"
	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/narrative"
	"market-analyst/internal/narrative/claude"
	"market-analyst/internal/narrative/narrativeobs"
	"market-analyst/internal/narrative/openai"
	"market-analyst/internal/narrative/rulebased"
	"market-analyst/internal/news"
	"market-analyst/internal/provider"
	"market-analyst/internal/provider/providerobs"
	"market-analyst/internal/report"
	"market-analyst/internal/report/reportobs"
	"market-analyst/internal/storage"
	"market-analyst/internal/store"
	"market-analyst/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes env, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("ANALYST_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeJournal points the decision journal at the configured
// directory and compresses entries past retention
func initializeJournal(ctx context.Context, cfg *store.Config) {
	if cfg.Audit.Dir != "" {
		auditlog.SetDir(cfg.Audit.Dir)
	}
	if err := auditlog.CompressOlder(cfg.Audit.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journals", "error", err)
	}
}

// initializeReport wires the daily summarizer with observability
func initializeReport(cfg *store.Config) {
	baseSummarizer := report.NewSummarizer(cfg.Report.Dir)
	report.SetDefaultSummarizer(reportobs.Wrap(baseSummarizer))
}

// initializeStore opens SQLite persistence, or a noop store when
// persistence is disabled. The second return value caches daily bars.
func initializeStore(ctx context.Context, cfg *store.Config) (interfaces.RecommendationStore, interfaces.BarCache, error) {
	if !cfg.Storage.Enabled {
		logger.Info(ctx, "Persistence disabled - recommendations are not stored")
		return storage.NewNoop(), nil, nil
	}

	s, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return s, s, nil
}

// initializePrices builds the price provider chain with caching and
// observability
func initializePrices(ctx context.Context, cfg *store.Config, cache interfaces.BarCache) (interfaces.PriceProvider, error) {
	base, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Price provider configured", "provider", base.Name())

	if cache != nil {
		base = provider.WithCache(base, cache)
	}
	return providerobs.Wrap(base), nil
}

// initializeNews builds the headline service from config
func initializeNews(cfg *store.Config) interfaces.NewsProvider {
	return news.FromConfig(cfg)
}

// initializeNarrator selects the configured narrator. LLM narrators
// degrade to the rule-based one when their API fails.
func initializeNarrator(ctx context.Context, cfg *store.Config) interfaces.Narrator {
	fallback := rulebased.New()

	var narrator interfaces.Narrator
	switch strings.ToUpper(cfg.Narrative.Provider) {
	case "OPENAI":
		narrator = narrative.WithFallback(openai.NewNarrator(cfg), fallback)
	case "CLAUDE":
		narrator = narrative.WithFallback(claude.NewNarrator(cfg), fallback)
	default:
		narrator = fallback
	}
	logger.Info(ctx, "Narrator configured", "provider", cfg.Narrative.Provider)

	return narrativeobs.Wrap(narrator)
}

// initializeAnalyzer assembles the analysis service with observability
func initializeAnalyzer(
	cfg *store.Config,
	prices interfaces.PriceProvider,
	headlines interfaces.NewsProvider,
	st interfaces.RecommendationStore,
	narrator interfaces.Narrator,
) interfaces.Analyzer {
	svc := analyzer.New(analyzer.Params{
		Config:   cfg,
		Prices:   prices,
		News:     headlines,
		Store:    st,
		Narrator: narrator,
	})
	return analyzerobs.Wrap(svc)
}
