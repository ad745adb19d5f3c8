package auditlog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"market-analyst/internal/types"
)

var (
	mu          sync.Mutex
	dirOverride string
)

// Entry is one analysis decision, appended as a JSON line to the day's
// journal. Time is stamped on append.
type Entry struct {
	Time       string         `json:"time"`
	Symbol     string         `json:"symbol"`
	Action     string         `json:"action"`
	Confidence float64        `json:"confidence"`
	Price      float64        `json:"price,omitempty"`
	Signals    []types.Signal `json:"signals,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// SetDir points the journal at a directory. Config-driven; the
// ANALYST_AUDIT_DIR env var and a built-in default cover the rest.
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	dirOverride = dir
}

func logDir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if v := os.Getenv("ANALYST_AUDIT_DIR"); v != "" {
		return v
	}
	return filepath.Join("logs", "decisions")
}

// DayPath returns the journal file for a UTC day.
func DayPath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), d+".jsonl")
}

// Append stamps the entry and writes it to today's journal.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")

	p := DayPath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// ReadDay returns every entry journaled for a UTC day. A missing file is
// an empty day, not an error. Lines that fail to parse are skipped.
func ReadDay(t time.Time) ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.Open(DayPath(t))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// CompressOlder gzips journal files older than the retention window and
// removes the originals. retentionDays <= 0 disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	mu.Lock()
	root := logDir()
	mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			// Compressed copy already exists; drop the original.
			return os.Remove(p)
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}

		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 != nil {
			gw.Close()
			out.Close()
			os.Remove(gz)
			return nil
		}
		if err := gw.Close(); err != nil {
			out.Close()
			os.Remove(gz)
			return nil
		}
		out.Close()
		return os.Remove(p)
	})
}
