package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "AAPL",
				"regularMarketPrice": 186.40,
				"chartPreviousClose": 184.00,
				"regularMarketTime": 1709931600
			},
			"timestamp": [1709704800, 1709791200, 1709877600, 1709964000],
			"indicators": {
				"quote": [{
					"open":   [183.00, null, 184.00, 186.00],
					"high":   [184.50, null, 185.80, 187.00],
					"low":    [182.50, null, 183.70, 185.00],
					"close":  [184.00, null, 185.10, 186.40],
					"volume": [41510710, null, 44372860, 48087680]
				}]
			}
		}],
		"error": null
	}
}`

const chartErrorBody = `{
	"chart": {
		"result": null,
		"error": {
			"code": "Not Found",
			"description": "No data found, symbol may be delisted"
		}
	}
}`

func TestQuoteFromChartMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	quote, err := client.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if quote.Price != 186.40 {
		t.Errorf("Expected price 186.40, got %f", quote.Price)
	}
	if diff := quote.Change - 2.40; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected change 2.40, got %f", quote.Change)
	}
	wantPercent := (186.40 - 184.00) / 184.00 * 100
	if diff := quote.ChangePercent - wantPercent; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected change percent %f, got %f", wantPercent, quote.ChangePercent)
	}
	if quote.AsOf.Unix() != 1709931600 {
		t.Errorf("Expected as-of from regularMarketTime, got %v", quote.AsOf)
	}
}

func TestDailySeriesSkipsNullBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("Expected interval 1d, got %s", got)
		}
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	series, err := client.DailySeries(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The null holiday bar is dropped.
	if len(series.Bars) != 3 {
		t.Fatalf("Expected 3 bars, got %d", len(series.Bars))
	}

	wantCloses := []float64{184.00, 185.10, 186.40}
	for i, want := range wantCloses {
		if series.Bars[i].Close != want {
			t.Errorf("Bar %d: expected close %f, got %f", i, want, series.Bars[i].Close)
		}
	}

	for i := 1; i < len(series.Bars); i++ {
		if !series.Bars[i].Time.After(series.Bars[i-1].Time) {
			t.Errorf("Bars not chronological at index %d", i)
		}
	}
}

func TestDailySeriesTrims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	series, err := client.DailySeries(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series.Bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(series.Bars))
	}
	if series.Bars[1].Close != 186.40 {
		t.Errorf("Expected newest bar kept, got close %f", series.Bars[1].Close)
	}
}

func TestChartAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartErrorBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Quote(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("Expected error from chart API")
	}
	if !strings.Contains(err.Error(), "delisted") {
		t.Errorf("Expected API error description, got %v", err)
	}
}

func TestRangeForDays(t *testing.T) {
	cases := map[int]string{
		20:  "1mo",
		90:  "3mo",
		180: "6mo",
		365: "1y",
		500: "2y",
	}
	for days, want := range cases {
		if got := rangeForDays(days); got != want {
			t.Errorf("rangeForDays(%d): expected %s, got %s", days, want, got)
		}
	}
}
