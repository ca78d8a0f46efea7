// Package store persists games, markets, and liquidity time series to an
// embedded SQLite database.
//
// The schema is created on open and is safe to reopen against an existing
// file. Snapshot writes are transactional: a snapshot row and its depth
// levels commit together or not at all. Snapshot timestamps are stored as
// Unix nanoseconds so range comparisons are numeric.
package store
