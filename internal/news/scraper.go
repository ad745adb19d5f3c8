package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-analyst/internal/logger"
	"market-analyst/internal/types"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SiteSource defines one scrapeable news site
type SiteSource struct {
	Name      string
	URL       string // {symbol} placeholder
	Domains   []string
	Selectors HeadlineSelectors
	RateLimit time.Duration
}

// HeadlineSelectors are the CSS selectors for extracting headline rows
type HeadlineSelectors struct {
	Container string
	Title     string
	Link      string
	Source    string
	Time      string
}

// defaultSiteSources returns the financial news sites to scrape
func defaultSiteSources() []SiteSource {
	return []SiteSource{
		{
			Name:    "Finviz",
			URL:     "https://finviz.com/quote.ashx?t={symbol}",
			Domains: []string{"finviz.com", "www.finviz.com"},
			Selectors: HeadlineSelectors{
				Container: "#news-table tr",
				Title:     "a.tab-link-news",
				Link:      "a.tab-link-news",
				Source:    ".news-link-right span",
				Time:      "td:first-child",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:    "YahooFinance",
			URL:     "https://finance.yahoo.com/quote/{symbol}/news",
			Domains: []string{"finance.yahoo.com"},
			Selectors: HeadlineSelectors{
				Container: "li.stream-item",
				Title:     "h3",
				Link:      "a",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// SiteScraper scrapes headlines directly from financial news sites. It
// serves as the fallback when the RSS feed comes back empty.
type SiteScraper struct {
	sources     []SiteSource
	timeout     time.Duration
	maxArticles int
}

// NewSiteScraper creates a scraper over the default sources
func NewSiteScraper(maxArticles int, timeout time.Duration) *SiteScraper {
	if maxArticles <= 0 {
		maxArticles = 10
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SiteScraper{
		sources:     defaultSiteSources(),
		timeout:     timeout,
		maxArticles: maxArticles,
	}
}

func (s *SiteScraper) Name() string { return "sitescraper" }

// Headlines scrapes each source in turn, deduplicates and caps
func (s *SiteScraper) Headlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	var (
		all  []types.Headline
		errs []error
	)

	perSource := s.maxArticles/len(s.sources) + 1

	for _, source := range s.sources {
		headlines, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.Warn(ctx, "Failed to scrape source", "source", source.Name, "symbol", symbol, "error", err)
			errs = append(errs, err)
			continue
		}
		all = append(all, headlines...)

		// Rate limiting between sources
		time.Sleep(source.RateLimit)
	}

	if len(all) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("scraping failed for %s: %w", symbol, errors.Join(errs...))
	}

	all = dedupeHeadlines(all)
	if len(all) > s.maxArticles {
		all = all[:s.maxArticles]
	}

	logger.Debug(ctx, "Site scraping completed", "symbol", symbol, "headlines", len(all))
	return all, nil
}

func (s *SiteScraper) scrapeSource(ctx context.Context, source SiteSource, symbol string, maxHeadlines int) ([]types.Headline, error) {
	headlines := []types.Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains(source.Domains...),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	origin := sourceOrigin(source.URL)

	// Finviz only dates the first row of each day; later rows carry the
	// clock alone, so the day is remembered across rows.
	var lastDay time.Time

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		link := e.ChildAttr(source.Selectors.Link, "href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = origin + link
		}

		sourceName := source.Name
		if source.Selectors.Source != "" {
			if name := headlineSourceName(e.DOM, source.Selectors.Source); name != "" {
				sourceName = name
			}
		}

		var published time.Time
		if source.Selectors.Time != "" {
			published = parseNewsTime(e.ChildText(source.Selectors.Time), &lastDay)
		}

		headlines = append(headlines, types.Headline{
			Title:       title,
			Source:      sourceName,
			URL:         link,
			PublishedAt: published,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scraping error", "source", source.Name, "url", r.Request.URL.String(), "error", err)
	})

	pageURL := strings.ReplaceAll(source.URL, "{symbol}", url.QueryEscape(symbol))
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	return headlines, nil
}

// headlineSourceName pulls the publisher name out of a row, stripping the
// parentheses sites wrap it in.
func headlineSourceName(row *goquery.Selection, selector string) string {
	text := strings.TrimSpace(row.Find(selector).First().Text())
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return strings.TrimSpace(text)
}

// sourceOrigin extracts scheme://host for making links absolute
func sourceOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

var newsTimeLayouts = []string{
	"Jan-02-06 03:04PM",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
}

// parseNewsTime parses the timestamp cell of a headline row. A bare
// clock reuses the most recent dated row's day; unparseable cells yield
// a zero time.
func parseNewsTime(raw string, lastDay *time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range newsTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*lastDay = t
			return t
		}
	}

	if t, err := time.Parse("03:04PM", raw); err == nil && !lastDay.IsZero() {
		return time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(),
			t.Hour(), t.Minute(), 0, 0, lastDay.Location())
	}

	return time.Time{}
}
