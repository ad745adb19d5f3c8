package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"market-analyst/internal/interfaces"
	"market-analyst/internal/logger"
	"market-analyst/internal/types"
)

// Store persists recommendations and daily bars in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var (
	_ interfaces.RecommendationStore = (*Store)(nil)
	_ interfaces.BarCache            = (*Store)(nil)
)

// Open opens (or creates) the SQLite database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads during an analysis pass do not block writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "SQLite store opened", "path", path)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			action       TEXT NOT NULL,
			confidence   REAL NOT NULL,
			signals      TEXT NOT NULL,
			generated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reco_symbol_ts ON recommendations(symbol, generated_at)`,

		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol   TEXT NOT NULL,
			bar_time INTEGER NOT NULL,
			open     REAL NOT NULL,
			high     REAL NOT NULL,
			low      REAL NOT NULL,
			close    REAL NOT NULL,
			volume   REAL NOT NULL,
			PRIMARY KEY (symbol, bar_time)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveRecommendation appends a recommendation. Stored rows are never
// updated; history is the full audit trail.
func (s *Store) SaveRecommendation(ctx context.Context, rec *types.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signals, err := json.Marshal(rec.Signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO recommendations
		(symbol, action, confidence, signals, generated_at)
		VALUES (?,?,?,?,?)`,
		rec.Symbol, string(rec.Action), rec.Confidence, string(signals),
		rec.GeneratedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

// LatestRecommendation returns the most recent recommendation for a
// symbol, or (nil, nil) when none is stored.
func (s *Store) LatestRecommendation(ctx context.Context, symbol string) (*types.Recommendation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT symbol, action, confidence, signals, generated_at
		FROM recommendations WHERE symbol = ?
		ORDER BY generated_at DESC, id DESC LIMIT 1`, symbol)

	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecommendationHistory returns up to limit recommendations for a
// symbol, newest first.
func (s *Store) RecommendationHistory(ctx context.Context, symbol string, limit int) ([]types.Recommendation, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `SELECT symbol, action, confidence, signals, generated_at
		FROM recommendations WHERE symbol = ?
		ORDER BY generated_at DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var recs []types.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (*types.Recommendation, error) {
	var (
		rec        types.Recommendation
		action     string
		signalsRaw string
		nanos      int64
	)
	if err := row.Scan(&rec.Symbol, &action, &rec.Confidence, &signalsRaw, &nanos); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(signalsRaw), &rec.Signals); err != nil {
		return nil, fmt.Errorf("unmarshal signals: %w", err)
	}
	rec.Action = types.Action(action)
	rec.GeneratedAt = time.Unix(0, nanos).UTC()
	return &rec, nil
}

// SaveBars upserts daily bars keyed on (symbol, bar time)
func (s *Store) SaveBars(ctx context.Context, symbol string, bars []types.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	for _, bar := range bars {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO price_bars
			(symbol, bar_time, open, high, low, close, volume)
			VALUES (?,?,?,?,?,?,?)`,
			symbol, bar.Time.UnixNano(), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar: %w", err)
		}
	}

	return tx.Commit()
}

// Bars returns up to limit bars for a symbol, chronological. limit <= 0
// returns everything.
func (s *Store) Bars(ctx context.Context, symbol string, limit int) ([]types.PriceBar, error) {
	query := `SELECT bar_time, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? ORDER BY bar_time DESC`
	args := []any{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []types.PriceBar
	for rows.Next() {
		var (
			bar   types.PriceBar
			nanos int64
		)
		if err := rows.Scan(&nanos, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, err
		}
		bar.Time = time.Unix(0, nanos).UTC()
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the index, flip to chronological.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func (s *Store) Close() error {
	logger.Info(context.Background(), "Closing SQLite store")
	return s.db.Close()
}
