package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"DCADashboard/internal/model"
)

// SQLiteStore persists raw series to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP API read while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			kind  TEXT    NOT NULL,
			code  TEXT    NOT NULL,
			day   INTEGER NOT NULL,
			value REAL    NOT NULL,
			PRIMARY KEY (kind, code, day)
		)`,
		`CREATE TABLE IF NOT EXISTS series_updates (
			kind       TEXT    NOT NULL,
			code       TEXT    NOT NULL,
			updated_at INTEGER NOT NULL,
			points     INTEGER NOT NULL,
			PRIMARY KEY (kind, code)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveSeries replaces the stored series for (kind, code).
func (s *SQLiteStore) SaveSeries(ctx context.Context, kind Kind, code string, obs []model.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations WHERE kind = ? AND code = ?`, string(kind), code); err != nil {
		return fmt.Errorf("clear %s/%s: %w", kind, code, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO observations (kind, code, day, value) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, string(kind), code, o.Date.Unix(), o.Value); err != nil {
			return fmt.Errorf("insert %s/%s: %w", kind, code, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO series_updates (kind, code, updated_at, points) VALUES (?,?,?,?)
		ON CONFLICT(kind, code) DO UPDATE SET updated_at = excluded.updated_at, points = excluded.points`,
		string(kind), code, time.Now().Unix(), len(obs)); err != nil {
		return fmt.Errorf("update meta %s/%s: %w", kind, code, err)
	}
	return tx.Commit()
}

// LoadSeries returns the stored series in chronological order.
func (s *SQLiteStore) LoadSeries(ctx context.Context, kind Kind, code string) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, value FROM observations WHERE kind = ? AND code = ? ORDER BY day`, string(kind), code)
	if err != nil {
		return nil, fmt.Errorf("query %s/%s: %w", kind, code, err)
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var day int64
		var value float64
		if err := rows.Scan(&day, &value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		obs = append(obs, model.Observation{Date: time.Unix(day, 0).UTC(), Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, ErrNotFound
	}
	return obs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
