// Package model defines shared data types used across the liquidity tracker.
//
// Conventions:
//   - Prices: integer cents (1-99 = $0.01-$0.99), always in YES-equivalent terms
//   - Timestamps: time.Time in UTC
//   - IDs: string for tickers, uuid.UUID for snapshot IDs
//
// Fields that may legitimately have no value (best bid on an empty side,
// mid/spread on a one-sided book) are pointers; nil means "no quote" and is
// never conflated with a real zero.
package model
