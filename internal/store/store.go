package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    event_ticker TEXT PRIMARY KEY,
    home_team    TEXT NOT NULL,
    away_team    TEXT NOT NULL,
    start_time   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS markets (
    ticker       TEXT PRIMARY KEY,
    event_ticker TEXT NOT NULL REFERENCES games(event_ticker),
    side         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
    id              TEXT PRIMARY KEY,
    ticker          TEXT NOT NULL REFERENCES markets(ticker),
    timestamp       INTEGER NOT NULL,
    best_bid        INTEGER,
    best_ask        INTEGER,
    mid             REAL,
    spread          INTEGER,
    total_bid_depth INTEGER NOT NULL,
    total_ask_depth INTEGER NOT NULL,
    open_interest   INTEGER
);

CREATE TABLE IF NOT EXISTS depth_levels (
    snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
    side        TEXT NOT NULL CHECK (side IN ('bid', 'ask')),
    price       INTEGER NOT NULL,
    quantity    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS candles (
    ticker           TEXT NOT NULL,
    end_time         TIMESTAMP NOT NULL,
    interval_minutes INTEGER NOT NULL,
    open             INTEGER NOT NULL,
    high             INTEGER NOT NULL,
    low              INTEGER NOT NULL,
    close            INTEGER NOT NULL,
    volume           INTEGER NOT NULL,
    open_interest    INTEGER NOT NULL,
    PRIMARY KEY (ticker, end_time, interval_minutes)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_ticker_time ON snapshots(ticker, timestamp);
CREATE INDEX IF NOT EXISTS idx_depth_levels_snapshot ON depth_levels(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_markets_event ON markets(event_ticker);
`

// Store wraps the embedded SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates (or reopens) the database at path and ensures the schema
// exists. The parent directory is created if missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Single writer; WAL keeps readers unblocked during snapshot commits.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
