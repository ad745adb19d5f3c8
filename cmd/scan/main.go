package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"market-analyst/internal/analyzer"
	"market-analyst/internal/auditlog"
	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/narrative"
	"market-analyst/internal/narrative/claude"
	"market-analyst/internal/narrative/openai"
	"market-analyst/internal/narrative/rulebased"
	"market-analyst/internal/news"
	"market-analyst/internal/provider"
	"market-analyst/internal/storage"
	"market-analyst/internal/store"
	"market-analyst/internal/types"

	"github.com/joho/godotenv"
)

const separator = "─────────────────────────────────────────────────────────────────"

func main() {
	// Command-line flags
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbolList := flag.String("symbols", "", "comma-separated symbols (defaults to the configured watchlist)")
	format := flag.String("format", "text", "output format: text or json")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	symbols := cfg.Watchlist
	if *symbolList != "" {
		symbols = nil
		for _, s := range strings.Split(*symbolList, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
	}
	if len(symbols) == 0 {
		fmt.Println("Error: no symbols to scan (use -symbols or configure a watchlist)")
		flag.Usage()
		os.Exit(1)
	}

	if cfg.Audit.Dir != "" {
		auditlog.SetDir(cfg.Audit.Dir)
	}

	// Build the price provider chain
	prices, err := provider.FromConfig(cfg)
	if err != nil {
		fmt.Printf("Error configuring price provider: %v\n", err)
		os.Exit(1)
	}

	// Open persistence when enabled so scan results are kept
	var st interfaces.RecommendationStore = storage.NewNoop()
	if cfg.Storage.Enabled {
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		st = db
		prices = provider.WithCache(prices, db)
	}

	// Select narrator
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

	svc := analyzer.New(analyzer.Params{
		Config:   cfg,
		Prices:   prices,
		News:     news.FromConfig(cfg),
		Store:    st,
		Narrator: narrator,
	})

	// Run analysis
	reports, err := svc.AnalyzeAll(context.Background(), symbols)
	if err != nil {
		fmt.Printf("Error running analysis: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding reports: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	case "text":
		printText(reports)
	default:
		fmt.Printf("Unknown format: %s. Using text format.\n", *format)
		printText(reports)
	}
}

func printText(reports []*types.Report) {
	for _, r := range reports {
		fmt.Println(separator)
		rec := r.Recommendation
		fmt.Printf("%s: %s (%s%% confidence)\n", r.Symbol, rec.Action, narrative.FormatConfidence(rec.Confidence))
		if r.Quote != nil {
			fmt.Printf("  Price: %.2f (%+.2f%%)\n", r.Quote.Price, r.Quote.ChangePercent)
		}
		if ind := r.Indicators; ind != nil {
			if ind.RSI.Valid {
				fmt.Printf("  RSI: %.1f\n", ind.RSI.Value)
			}
			fmt.Printf("  Trend: %s\n", narrative.TrendLabel(ind))
		}
		if s := r.Sentiment; s != nil && s.Articles > 0 {
			fmt.Printf("  Sentiment: %s (%.2f over %d articles)\n", narrative.SentimentLabel(s), s.Polarity, s.Articles)
		}
		for _, sig := range rec.Signals {
			fmt.Printf("    %-12s %s (weight %.1f)\n", sig.Name, sig.Direction, sig.Weight)
		}
		if r.Summary != "" {
			fmt.Printf("  %s\n", r.Summary)
		}
	}
	fmt.Println(separator)
	fmt.Printf("Scanned %d symbols\n", len(reports))
}
