package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"market-analyst/internal/auditlog"
	"market-analyst/internal/provider"
)

// aggRow accumulates one symbol's decisions across a day.
type aggRow struct {
	Symbol        string
	Analyses      int
	Buy           int
	Sell          int
	Hold          int
	ConfidenceSum float64
	LastAction    string
	LastPrice     float64
}

type dailySummarizer struct {
	reportDir string
}

// dir resolves lazily so env vars loaded after construction still apply.
func (d *dailySummarizer) dir() string {
	if d.reportDir != "" {
		return d.reportDir
	}
	if v := os.Getenv("ANALYST_REPORT_DIR"); v != "" {
		return v
	}
	return "reports"
}

func (d *dailySummarizer) csvPath(t time.Time) string {
	return filepath.Join(d.dir(), t.UTC().Format("2006-01-02")+".csv")
}

// SummarizeDay rolls the day's decision journal up into a CSV, one row
// per symbol plus a TOTAL row. An empty day produces no file and no
// error.
func (d *dailySummarizer) SummarizeDay(t time.Time) (string, error) {
	entries, err := auditlog.ReadDay(t)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	aggs := map[string]*aggRow{}
	for _, e := range entries {
		row := aggs[e.Symbol]
		if row == nil {
			row = &aggRow{Symbol: e.Symbol}
			aggs[e.Symbol] = row
		}
		row.Analyses++
		switch e.Action {
		case "BUY":
			row.Buy++
		case "SELL":
			row.Sell++
		default:
			row.Hold++
		}
		row.ConfidenceSum += e.Confidence
		row.LastAction = e.Action
		if e.Price > 0 {
			row.LastPrice = e.Price
		}
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := d.csvPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"symbol", "analyses", "buy", "sell", "hold", "avg_confidence", "last_action", "last_price"}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalAnalyses, totalBuy, totalSell, totalHold int
	for _, k := range keys {
		r := aggs[k]
		avg := r.ConfidenceSum / float64(r.Analyses)
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Analyses),
			strconv.Itoa(r.Buy),
			strconv.Itoa(r.Sell),
			strconv.Itoa(r.Hold),
			fmt.Sprintf("%.1f", avg),
			r.LastAction,
			fmt.Sprintf("%.2f", r.LastPrice),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalAnalyses += r.Analyses
		totalBuy += r.Buy
		totalSell += r.Sell
		totalHold += r.Hold
	}
	_ = w.Write([]string{
		"TOTAL",
		strconv.Itoa(totalAnalyses),
		strconv.Itoa(totalBuy),
		strconv.Itoa(totalSell),
		strconv.Itoa(totalHold),
		"", "", "",
	})

	return outPath, nil
}

// SummarizeToday rolls up the current UTC day.
func (d *dailySummarizer) SummarizeToday() (string, error) {
	return d.SummarizeDay(time.Now().UTC())
}

// ShouldRunNow reports whether the daily rollup is due: past the US
// close, with today's CSV still missing.
func (d *dailySummarizer) ShouldRunNow() (bool, string) {
	now := time.Now().In(provider.Eastern())
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 16, 10, 0, 0, now.Location())
	outPath := d.csvPath(now)
	if now.After(cutoff) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
