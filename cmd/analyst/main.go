package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"market-analyst/internal/logger"
	"market-analyst/internal/report"
	"market-analyst/internal/scheduler"
	"market-analyst/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize system: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	initializeJournal(ctx, cfg)
	initializeReport(cfg)

	st, cache, err := initializeStore(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open storage", err, "path", cfg.Storage.Path)
		os.Exit(1)
	}
	defer st.Close()

	prices, err := initializePrices(ctx, cfg, cache)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to configure price provider", err)
		os.Exit(1)
	}

	headlines := initializeNews(cfg)
	narrator := initializeNarrator(ctx, cfg)
	svc := initializeAnalyzer(cfg, prices, headlines, st, narrator)

	sched := scheduler.New(ctx, cfg, svc)
	if err := sched.RegisterAll(); err != nil {
		logger.ErrorWithErr(ctx, "Failed to register scheduled tasks", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Market analyst started",
		"watchlist", len(cfg.Watchlist),
		"poll_minutes", cfg.PollMinutes,
	)

	// First pass immediately, then on the poll schedule.
	sched.RunPassNow()
	sched.Start()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case <-ctx.Done():
	}

	sched.Stop()
	if p, err := report.SummarizeToday(); err == nil && p != "" {
		logger.Info(ctx, "Daily report written", "path", p)
	}
	_ = trace.Shutdown(context.Background())
}
