package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-analyst/internal/types"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"AAPL" - Google News</title>
<item>
<title>Apple surges on record earnings - Reuters</title>
<link>https://example.com/apple-surges</link>
<pubDate>Fri, 08 Mar 2024 14:00:00 GMT</pubDate>
<description>&lt;a href="https://example.com/apple-surges"&gt;Apple surges&lt;/a&gt;</description>
</item>
<item>
<title>Apple faces EU antitrust probe - Bloomberg</title>
<link>https://example.com/apple-probe</link>
<pubDate>Thu, 07 Mar 2024 09:30:00 GMT</pubDate>
<description>Probe details</description>
</item>
<item>
<title>Old story about Apple - CNBC</title>
<link>https://example.com/apple-old</link>
<pubDate>Mon, 01 Jan 2024 09:30:00 GMT</pubDate>
<description>Stale</description>
</item>
</channel>
</rss>`

func testGoogleNews(serverURL string) *GoogleNews {
	g := NewGoogleNews(GoogleNewsConfig{
		MaxArticles:  10,
		LookbackDays: 7,
		BaseURL:      serverURL,
	})
	g.now = func() time.Time {
		return time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
	}
	return g
}

func TestGoogleNewsParsesFeed(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RawQuery)
		w.Write([]byte(rssBody))
	}))
	defer server.Close()

	g := testGoogleNews(server.URL)

	headlines, err := g.Headlines(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// One feed per query; duplicates collapse, the stale item is dropped.
	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines, got %d", len(headlines))
	}

	if headlines[0].Title != "Apple surges on record earnings" {
		t.Errorf("Expected newest first, got %q", headlines[0].Title)
	}
	if headlines[0].Source != "Reuters" {
		t.Errorf("Expected source Reuters, got %q", headlines[0].Source)
	}
	if headlines[1].Source != "Bloomberg" {
		t.Errorf("Expected source Bloomberg, got %q", headlines[1].Source)
	}

	if len(paths) != 3 {
		t.Errorf("Expected 3 queries, got %d", len(paths))
	}
}

func TestGoogleNewsLookbackFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssBody))
	}))
	defer server.Close()

	g := testGoogleNews(server.URL)

	headlines, err := g.Headlines(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, h := range headlines {
		if h.Title == "Old story about Apple" {
			t.Error("Expected stale headline filtered out")
		}
	}
}

func TestGoogleNewsCapsArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssBody))
	}))
	defer server.Close()

	g := NewGoogleNews(GoogleNewsConfig{
		MaxArticles:  1,
		LookbackDays: 7,
		BaseURL:      server.URL,
	})
	g.now = func() time.Time {
		return time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
	}

	headlines, err := g.Headlines(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(headlines) != 1 {
		t.Fatalf("Expected 1 headline with cap, got %d", len(headlines))
	}
}

func TestGoogleNewsAllQueriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	g := testGoogleNews(server.URL)

	if _, err := g.Headlines(context.Background(), "AAPL"); err == nil {
		t.Fatal("Expected error when every query fails")
	}
}

func TestGoogleNewsQueries(t *testing.T) {
	g := NewGoogleNews(GoogleNewsConfig{
		CompanyNames: map[string]string{"AAPL": "Apple Inc"},
	})

	qs := g.queries("AAPL")
	if len(qs) != 3 {
		t.Fatalf("Expected 3 queries, got %d", len(qs))
	}
	if qs[2] != "Apple Inc" {
		t.Errorf("Expected company name query, got %q", qs[2])
	}

	qs = g.queries("XYZ")
	if qs[2] != "XYZ earnings" {
		t.Errorf("Expected earnings query without company name, got %q", qs[2])
	}
}

func TestSplitTitleSource(t *testing.T) {
	title, source := splitTitleSource("Apple surges on record earnings - Reuters")
	if title != "Apple surges on record earnings" {
		t.Errorf("Unexpected title %q", title)
	}
	if source != "Reuters" {
		t.Errorf("Unexpected source %q", source)
	}

	title, source = splitTitleSource("Bare headline")
	if title != "Bare headline" {
		t.Errorf("Unexpected title %q", title)
	}
	if source != "Google News" {
		t.Errorf("Expected default source, got %q", source)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML(`<a href="x">Apple &amp; more</a> rises`)
	if got != "Apple &amp; more rises" {
		t.Errorf("Unexpected strip result %q", got)
	}
}

func TestDedupeHeadlines(t *testing.T) {
	deduped := dedupeHeadlines([]types.Headline{
		{Title: "Apple Surges"},
		{Title: "apple surges"},
		{Title: "Apple falls"},
	})
	if len(deduped) != 2 {
		t.Fatalf("Expected 2 after dedupe, got %d", len(deduped))
	}
	if deduped[0].Title != "Apple Surges" {
		t.Errorf("Expected first occurrence kept, got %q", deduped[0].Title)
	}
}
