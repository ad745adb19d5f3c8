package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"market-analyst/internal/auditlog"
	"market-analyst/internal/fusion"
	"market-analyst/internal/indicator"
	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/sentiment"
	"market-analyst/internal/store"
	"market-analyst/internal/types"
)

// Params collects the collaborators one Service needs. Store and
// Narrator are optional; the others are required.
type Params struct {
	Config   *store.Config
	Prices   interfaces.PriceProvider
	News     interfaces.NewsProvider
	Store    interfaces.RecommendationStore
	Narrator interfaces.Narrator
}

// Service runs the full analysis pass for a symbol: price history and
// headlines in, recommendation plus report out. It keeps no per-run
// state, so one Service serves concurrent callers.
type Service struct {
	cfg      *store.Config
	prices   interfaces.PriceProvider
	news     interfaces.NewsProvider
	store    interfaces.RecommendationStore
	narrator interfaces.Narrator
	inds     *indicator.Engine
	scorer   *sentiment.Scorer
	fuser    *fusion.Engine
	workers  int
}

var _ interfaces.Analyzer = (*Service)(nil)

func New(p Params) *Service {
	cfg := p.Config
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Service{
		cfg:      cfg,
		prices:   p.Prices,
		news:     p.News,
		store:    p.Store,
		narrator: p.Narrator,
		inds: indicator.New(indicator.Config{
			RSIPeriod:  cfg.Indicators.RSIPeriod,
			MACDFast:   cfg.Indicators.MACDFast,
			MACDSlow:   cfg.Indicators.MACDSlow,
			MACDSignal: cfg.Indicators.MACDSignal,
			BBWindow:   cfg.Indicators.BBWindow,
			BBStdDev:   cfg.Indicators.BBStdDev,
			ShortMA:    cfg.Indicators.ShortMA,
			LongMA:     cfg.Indicators.LongMA,
		}),
		scorer: sentiment.NewScorer(cfg.Sentiment.SaturationArticles),
		fuser: fusion.New(fusion.Config{
			Threshold:     cfg.Fusion.Threshold,
			RSIOverbought: cfg.Fusion.RSIOverbought,
			RSIOversold:   cfg.Fusion.RSIOversold,
			PolarityCut:   cfg.Fusion.PolarityCut,
			Weights: fusion.Weights{
				RSI:       cfg.Fusion.Weights.RSI,
				MACD:      cfg.Fusion.Weights.MACD,
				Bollinger: cfg.Fusion.Weights.Bollinger,
				MATrend:   cfg.Fusion.Weights.MATrend,
				Sentiment: cfg.Fusion.Weights.Sentiment,
			},
		}),
		workers: workers,
	}
}

// Analyze produces a recommendation report for one symbol. Price history
// is required; headlines and the quote degrade gracefully when their
// sources fail.
func (s *Service) Analyze(ctx context.Context, symbol string) (*types.Report, error) {
	logger.Debug(ctx, "Starting analysis", "symbol", symbol)

	var (
		wg        sync.WaitGroup
		series    *types.PriceSeries
		headlines []types.Headline
		quote     *types.Quote
		seriesErr error
		newsErr   error
		quoteErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		series, seriesErr = s.prices.DailySeries(ctx, symbol, s.cfg.HistoryDays)
	}()
	go func() {
		defer wg.Done()
		headlines, newsErr = s.news.Headlines(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		quote, quoteErr = s.prices.Quote(ctx, symbol)
	}()
	wg.Wait()

	if seriesErr != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch price history", seriesErr, "symbol", symbol)
		return nil, fmt.Errorf("price history for %s: %w", symbol, seriesErr)
	}
	logger.Debug(ctx, "Price history fetched", "symbol", symbol, "bars", len(series.Bars))

	// Headlines are one vote among several; analysis continues without
	// them and the sentiment signal reports zero articles.
	if newsErr != nil {
		logger.Warn(ctx, "News fetch failed, continuing without sentiment",
			"symbol", symbol, "error", newsErr)
		headlines = nil
	}
	if quoteErr != nil {
		logger.Debug(ctx, "Quote fetch failed, report carries none",
			"symbol", symbol, "error", quoteErr)
		quote = nil
	}

	snap, err := s.inds.Snapshot(series)
	if err != nil {
		logger.ErrorWithErr(ctx, "Indicator snapshot failed", err, "symbol", symbol)
		return nil, fmt.Errorf("indicators for %s: %w", symbol, err)
	}
	logger.Debug(ctx, "Indicators calculated",
		"symbol", symbol,
		"rsi", snap.RSI.Value,
		"macd_hist", snap.MACDHist.Value,
		"band_upper", snap.BandUpper.Value,
		"band_lower", snap.BandLower.Value,
		"trend", snap.Trend,
	)

	sent := s.scorer.Score(headlines)
	rec := s.fuser.Fuse(snap, sent)

	logger.Recommendation(ctx, symbol, string(rec.Action), rec.Confidence,
		"signals", len(rec.Signals),
		"polarity", sent.Polarity,
		"articles", sent.Articles,
	)

	report := &types.Report{
		Symbol:         symbol,
		Recommendation: rec,
		Indicators:     snap,
		Sentiment:      sent,
		Quote:          quote,
	}

	if s.narrator != nil {
		summary, err := s.narrator.Summarize(ctx, report)
		if err != nil {
			logger.Warn(ctx, "Narrative generation failed", "symbol", symbol, "error", err)
		} else {
			report.Summary = summary
		}
	}

	if s.store != nil {
		if err := s.store.SaveRecommendation(ctx, rec); err != nil {
			logger.Warn(ctx, "Failed to persist recommendation", "symbol", symbol, "error", err)
		}
	}

	if s.cfg.Audit.Enabled {
		entry := auditlog.Entry{
			Symbol:     symbol,
			Action:     string(rec.Action),
			Confidence: rec.Confidence,
			Price:      snap.Close,
			Signals:    rec.Signals,
			Summary:    report.Summary,
		}
		if err := auditlog.Append(entry); err != nil {
			logger.Warn(ctx, "Failed to journal decision", "symbol", symbol, "error", err)
		}
	}

	return report, nil
}

// AnalyzeAll fans the watchlist out over a bounded worker set. Symbols
// fail independently; the error is non-nil only when every symbol
// failed.
func (s *Service) AnalyzeAll(ctx context.Context, symbols []string) ([]*types.Report, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	reports := make([]*types.Report, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			reports[i], errs[i] = s.Analyze(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	out := make([]*types.Report, 0, len(symbols))
	var failed []error
	for i, r := range reports {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		out = append(out, r)
	}

	if len(out) == 0 && len(failed) > 0 {
		return nil, fmt.Errorf("all %d symbols failed: %w", len(symbols), errors.Join(failed...))
	}
	for _, err := range failed {
		logger.Warn(ctx, "Symbol analysis failed", "error", err)
	}
	return out, nil
}
