package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/kalshi-liquidity/internal/model"
)

// UpsertGame inserts a game if it is not already known. Existing rows are
// left untouched so a game's recorded start time never drifts after
// discovery.
func (s *Store) UpsertGame(ctx context.Context, g model.Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO games (event_ticker, home_team, away_team, start_time)
		VALUES (?, ?, ?, ?)`,
		g.EventTicker, g.HomeTeam, g.AwayTeam, g.StartTime.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.EventTicker, err)
	}
	return nil
}

// UpsertMarket inserts a market if it is not already known.
func (s *Store) UpsertMarket(ctx context.Context, m model.Market) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO markets (ticker, event_ticker, side)
		VALUES (?, ?, ?)`,
		m.Ticker, m.EventTicker, m.Side,
	)
	if err != nil {
		return fmt.Errorf("upsert market %s: %w", m.Ticker, err)
	}
	return nil
}

// AppendSnapshot writes one snapshot and its depth levels in a single
// transaction. A failure leaves no partial rows behind.
func (s *Store) AppendSnapshot(ctx context.Context, snap model.Snapshot, levels []model.DepthLevel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, ticker, timestamp, best_bid, best_ask, mid, spread,
		                       total_bid_depth, total_ask_depth, open_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID.String(), snap.Ticker, snap.Timestamp.UnixNano(),
		nullableInt(snap.BestBid), nullableInt(snap.BestAsk),
		nullableFloat(snap.Mid), nullableInt(snap.Spread),
		snap.TotalBidDepth, snap.TotalAskDepth, nullableInt64(snap.OpenInterest),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.Ticker, err)
	}

	for _, l := range levels {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO depth_levels (snapshot_id, side, price, quantity)
			VALUES (?, ?, ?, ?)`,
			l.SnapshotID.String(), l.Side, l.Price, l.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert depth level: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// InsertCandles writes backfilled OHLC bars, skipping bars already stored.
func (s *Store) InsertCandles(ctx context.Context, candles []model.Candle) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin candle tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, c := range candles {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO candles (ticker, end_time, interval_minutes,
			                               open, high, low, close, volume, open_interest)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Ticker, c.EndTime.UTC().Format(time.RFC3339), c.IntervalMinutes,
			c.Open, c.High, c.Low, c.Close, c.Volume, c.OpenInterest,
		)
		if err != nil {
			return 0, fmt.Errorf("insert candle %s@%s: %w", c.Ticker, c.EndTime, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit candle tx: %w", err)
	}
	return inserted, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
