package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/report"
	"market-analyst/internal/store"
)

// Scheduler runs the periodic analysis pass and the end-of-day report
// check on cron schedules.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *store.Config
	analyzer interfaces.Analyzer
	ctx      context.Context
}

func New(ctx context.Context, cfg *store.Config, analyzer interfaces.Analyzer) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		analyzer: analyzer,
		ctx:      ctx,
	}
}

// RegisterAll registers the watchlist pass and the daily report check.
func (s *Scheduler) RegisterAll() error {
	poll := fmt.Sprintf("@every %dm", s.cfg.PollMinutes)
	if _, err := s.cron.AddFunc(poll, s.analysisPass); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	if _, err := s.cron.AddFunc("@every 1m", s.reportCheck); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "poll_minutes", s.cfg.PollMinutes)
}

// Stop stops the cron scheduler. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunPassNow executes one analysis pass immediately, outside the
// schedule. The daemon uses it on startup.
func (s *Scheduler) RunPassNow() {
	s.analysisPass()
}

func (s *Scheduler) analysisPass() {
	// A pass must finish inside its own poll window.
	ctx, cancel := context.WithTimeout(s.ctx, time.Duration(s.cfg.PollMinutes)*time.Minute)
	defer cancel()

	reports, err := s.analyzer.AnalyzeAll(ctx, s.cfg.Watchlist)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis pass failed", err, "symbols", len(s.cfg.Watchlist))
		return
	}
	logger.Info(ctx, "Analysis pass completed",
		"symbols", len(s.cfg.Watchlist),
		"reports", len(reports),
	)
}

func (s *Scheduler) reportCheck() {
	if !s.cfg.Report.Enabled {
		return
	}
	if ok, _ := report.ShouldRunNow(); ok {
		if p, err := report.SummarizeToday(); err == nil && p != "" {
			logger.Info(s.ctx, "Daily report written", "csv_path", p)
		}
	}
}
