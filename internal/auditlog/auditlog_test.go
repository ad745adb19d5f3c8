package auditlog

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"market-analyst/internal/types"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("") })
	return dir
}

func TestAppendAndReadDay(t *testing.T) {
	useTempDir(t)

	entries := []Entry{
		{Symbol: "AAPL", Action: "BUY", Confidence: 62.5, Price: 184.2,
			Signals: []types.Signal{{Name: "rsi", Direction: types.DirBullish, Weight: 2}}},
		{Symbol: "TSLA", Action: "HOLD", Confidence: 10},
	}
	for _, e := range entries {
		if err := Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := ReadDay(time.Now().UTC())
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Symbol != "AAPL" || got[0].Action != "BUY" {
		t.Errorf("Expected AAPL BUY first, got %s %s", got[0].Symbol, got[0].Action)
	}
	if got[0].Time == "" {
		t.Error("Expected appended entry to carry a timestamp")
	}
	if len(got[0].Signals) != 1 || got[0].Signals[0].Name != "rsi" {
		t.Errorf("Expected rsi signal to round-trip, got %+v", got[0].Signals)
	}
}

func TestReadDayMissingFile(t *testing.T) {
	useTempDir(t)

	got, err := ReadDay(time.Now().UTC())
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing day, got %v", got)
	}
}

func TestReadDaySkipsCorruptLines(t *testing.T) {
	useTempDir(t)

	if err := Append(Entry{Symbol: "AAPL", Action: "HOLD"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	p := DayPath(time.Now().UTC())
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	f.WriteString("{not json\n")
	f.Close()
	if err := Append(Entry{Symbol: "MSFT", Action: "BUY"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := ReadDay(time.Now().UTC())
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected corrupt line skipped leaving 2 entries, got %d", len(got))
	}
}

func TestCompressOlder(t *testing.T) {
	dir := useTempDir(t)

	old := filepath.Join(dir, "2024-01-02.jsonl")
	if err := os.WriteFile(old, []byte(`{"symbol":"AAPL","action":"BUY"}`+"\n"), 0o644); err != nil {
		t.Fatalf("write old journal: %v", err)
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected original journal to be removed")
	}
	gz, err := os.Open(old + ".gz")
	if err != nil {
		t.Fatalf("Expected gzipped journal: %v", err)
	}
	defer gz.Close()
	gr, err := gzip.NewReader(gz)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read gzipped journal: %v", err)
	}
	if !strings.Contains(string(body), `"symbol":"AAPL"`) {
		t.Errorf("Expected compressed body to keep entries, got %q", body)
	}
}

func TestCompressOlderKeepsRecentFiles(t *testing.T) {
	dir := useTempDir(t)

	recent := filepath.Join(dir, "2024-03-08.jsonl")
	if err := os.WriteFile(recent, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write journal: %v", err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}
	if _, err := os.Stat(recent); err != nil {
		t.Errorf("Expected recent journal untouched: %v", err)
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	if err := CompressOlder(0); err != nil {
		t.Errorf("Expected no-op for zero retention, got %v", err)
	}
}
