package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"market-analyst/internal/api"
	"market-analyst/internal/logger"
	"market-analyst/internal/types"
)

const defaultGoogleNewsURL = "https://news.google.com"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// GoogleNewsConfig configures the Google News RSS provider
type GoogleNewsConfig struct {
	MaxArticles  int
	LookbackDays int
	CompanyNames map[string]string // symbol -> company name, widens the search
	BaseURL      string            // overridden in tests
	Timeout      time.Duration
}

// GoogleNews fetches headlines from the Google News RSS search feed.
type GoogleNews struct {
	api          *api.Client
	parser       *gofeed.Parser
	baseURL      string
	maxArticles  int
	lookbackDays int
	companyNames map[string]string
	now          func() time.Time
}

// NewGoogleNews creates a Google News headline provider
func NewGoogleNews(cfg GoogleNewsConfig) *GoogleNews {
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 10
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGoogleNewsURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &GoogleNews{
		api:          api.NewClient(api.WithTimeout(cfg.Timeout)),
		parser:       gofeed.NewParser(),
		baseURL:      cfg.BaseURL,
		maxArticles:  cfg.MaxArticles,
		lookbackDays: cfg.LookbackDays,
		companyNames: cfg.CompanyNames,
		now:          time.Now,
	}
}

func (g *GoogleNews) Name() string { return "googlenews" }

// queries builds the search terms for a symbol. The company name, when
// known, catches coverage that never mentions the ticker.
func (g *GoogleNews) queries(symbol string) []string {
	qs := []string{symbol, symbol + " stock"}
	if name := g.companyNames[strings.ToUpper(symbol)]; name != "" {
		qs = append(qs, name)
	} else {
		qs = append(qs, symbol+" earnings")
	}
	return qs
}

// Headlines fetches recent headlines for a symbol, deduplicated across
// queries, newest first, capped at MaxArticles.
func (g *GoogleNews) Headlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	var (
		all  []types.Headline
		errs []error
	)

	for _, query := range g.queries(symbol) {
		headlines, err := g.search(ctx, query)
		if err != nil {
			logger.Warn(ctx, "Google News query failed", "symbol", symbol, "query", query, "error", err)
			errs = append(errs, err)
			continue
		}
		all = append(all, headlines...)
	}

	if len(all) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("google news fetch failed for %s: %w", symbol, errors.Join(errs...))
	}

	all = dedupeHeadlines(all)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	if len(all) > g.maxArticles {
		all = all[:g.maxArticles]
	}

	logger.Debug(ctx, "Google News headlines fetched", "symbol", symbol, "count", len(all))
	return all, nil
}

func (g *GoogleNews) search(ctx context.Context, query string) ([]types.Headline, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	endpoint := g.baseURL + "/rss/search?" + params.Encode()

	resp, err := g.api.GET(ctx, endpoint, api.BrowserHeaders())
	if err != nil {
		return nil, err
	}

	feed, err := g.parser.ParseString(resp.String())
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	cutoff := g.now().AddDate(0, 0, -g.lookbackDays)

	headlines := make([]types.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		title, source := splitTitleSource(stripHTML(item.Title))
		if title == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
			// Items with a parseable date must be inside the window;
			// undated items are kept.
			if published.Before(cutoff) {
				continue
			}
		}

		headlines = append(headlines, types.Headline{
			Title:       title,
			Source:      source,
			URL:         item.Link,
			PublishedAt: published,
		})
	}

	return headlines, nil
}

// splitTitleSource separates "Headline - Publisher" titles the way
// Google News formats them.
func splitTitleSource(title string) (string, string) {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
	}
	return strings.TrimSpace(title), "Google News"
}

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// dedupeHeadlines drops repeats of the same story surfaced by multiple
// queries, keyed on the lowercased title.
func dedupeHeadlines(headlines []types.Headline) []types.Headline {
	seen := make(map[string]bool, len(headlines))
	out := headlines[:0]
	for _, h := range headlines {
		key := strings.ToLower(h.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
