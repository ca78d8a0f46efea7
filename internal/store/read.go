package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/kalshi-liquidity/internal/model"
)

// Games returns all known games ordered by start time.
func (s *Store) Games(ctx context.Context) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_ticker, home_team, away_team, start_time
		FROM games ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		var start string
		if err := rows.Scan(&g.EventTicker, &g.HomeTeam, &g.AwayTeam, &start); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if g.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parse game start time %q: %w", start, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Markets returns all known markets ordered by ticker.
func (s *Store) Markets(ctx context.Context) ([]model.Market, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, event_ticker, side FROM markets ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	var markets []model.Market
	for rows.Next() {
		var m model.Market
		if err := rows.Scan(&m.Ticker, &m.EventTicker, &m.Side); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// Snapshots returns snapshots for a market within [from, to), oldest first.
func (s *Store) Snapshots(ctx context.Context, ticker string, from, to time.Time) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticker, timestamp, best_bid, best_ask, mid, spread,
		       total_bid_depth, total_ask_depth, open_interest
		FROM snapshots
		WHERE ticker = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp`,
		ticker, from.UnixNano(), to.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// DepthLevels returns the stored book rows for one snapshot, bids first.
func (s *Store) DepthLevels(ctx context.Context, snapshotID uuid.UUID) ([]model.DepthLevel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot_id, side, price, quantity
		FROM depth_levels WHERE snapshot_id = ?
		ORDER BY side ASC, price DESC`,
		snapshotID.String())
	if err != nil {
		return nil, fmt.Errorf("query depth levels: %w", err)
	}
	defer rows.Close()

	var levels []model.DepthLevel
	for rows.Next() {
		var l model.DepthLevel
		var id string
		if err := rows.Scan(&id, &l.Side, &l.Price, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan depth level: %w", err)
		}
		if l.SnapshotID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse snapshot id %q: %w", id, err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func scanSnapshot(rows *sql.Rows) (model.Snapshot, error) {
	var snap model.Snapshot
	var id string
	var ts int64
	var bestBid, bestAsk, spread sql.NullInt64
	var mid sql.NullFloat64
	var openInterest sql.NullInt64

	err := rows.Scan(&id, &snap.Ticker, &ts, &bestBid, &bestAsk, &mid, &spread,
		&snap.TotalBidDepth, &snap.TotalAskDepth, &openInterest)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	if snap.ID, err = uuid.Parse(id); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse snapshot id %q: %w", id, err)
	}
	snap.Timestamp = time.Unix(0, ts).UTC()

	if bestBid.Valid {
		v := int(bestBid.Int64)
		snap.BestBid = &v
	}
	if bestAsk.Valid {
		v := int(bestAsk.Int64)
		snap.BestAsk = &v
	}
	if mid.Valid {
		v := mid.Float64
		snap.Mid = &v
	}
	if spread.Valid {
		v := int(spread.Int64)
		snap.Spread = &v
	}
	if openInterest.Valid {
		v := openInterest.Int64
		snap.OpenInterest = &v
	}

	return snap, nil
}
