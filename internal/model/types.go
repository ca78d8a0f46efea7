package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// Game represents one real-world event with two mirrored win markets.
type Game struct {
	EventTicker string    // Primary key (e.g., "KXNFLGAME-26JAN10GBCHI")
	HomeTeam    string    // Home team code (e.g., "CHI")
	AwayTeam    string    // Away team code (e.g., "GB")
	StartTime   time.Time // Scheduled kickoff (UTC); immutable once discovered
}

// Market is the single tracked side of a Game. The mirror market is redundant
// and not tracked separately.
type Market struct {
	Ticker      string // Primary key (e.g., "KXNFLGAME-26JAN10GBCHI-GB")
	EventTicker string // Foreign key to Game
	Side        string // Team label the market pays out on (e.g., "GB")
}

// -----------------------------------------------------------------------------
// Orderbook Types
// -----------------------------------------------------------------------------

// QuoteLevel is one price/quantity pair on one side of a unified book.
type QuoteLevel struct {
	Price    int // Cents, 1-99
	Quantity int // Contracts resting at this price, >= 0
}

// Book is a unified bid/ask view of a market built from the exchange's split
// YES/NO quoting. Bids are sorted descending (best first), asks ascending.
type Book struct {
	Bids []QuoteLevel
	Asks []QuoteLevel

	BestBid *int     // nil when no bids
	BestAsk *int     // nil when no asks
	Mid     *float64 // nil unless both sides quote
	Spread  *int     // nil unless both sides quote; may be <= 0 on a crossed book

	TotalBidDepth int
	TotalAskDepth int
}

// Crossed reports whether the book's best bid meets or exceeds its best ask.
// Crossed books are recorded as-is; this is an observation, not an error.
func (b Book) Crossed() bool {
	return b.BestBid != nil && b.BestAsk != nil && *b.BestBid >= *b.BestAsk
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Snapshot is a point-in-time summary of a market's book.
type Snapshot struct {
	ID            uuid.UUID // Primary key
	Ticker        string    // Market ticker
	Timestamp     time.Time // Collection instant (UTC)
	BestBid       *int      // Cents; nil when the bid side is empty
	BestAsk       *int      // Cents; nil when the ask side is empty
	Mid           *float64  // nil unless both sides quote
	Spread        *int      // nil unless both sides quote
	TotalBidDepth int
	TotalAskDepth int
	OpenInterest  *int64 // nil when market metadata was unavailable
}

// DepthLevel is one stored row of a snapshot's full book.
type DepthLevel struct {
	SnapshotID uuid.UUID
	Side       string // "bid" or "ask"
	Price      int    // Cents
	Quantity   int
}

// DepthLevels flattens a Book into storable rows for the given snapshot.
func DepthLevels(snapshotID uuid.UUID, book Book) []DepthLevel {
	rows := make([]DepthLevel, 0, len(book.Bids)+len(book.Asks))
	for _, l := range book.Bids {
		rows = append(rows, DepthLevel{SnapshotID: snapshotID, Side: SideBid, Price: l.Price, Quantity: l.Quantity})
	}
	for _, l := range book.Asks {
		rows = append(rows, DepthLevel{SnapshotID: snapshotID, Side: SideAsk, Price: l.Price, Quantity: l.Quantity})
	}
	return rows
}

// Depth level side labels.
const (
	SideBid = "bid"
	SideAsk = "ask"
)

// Candle is one historical OHLC bar backfilled from the exchange.
type Candle struct {
	Ticker          string
	EndTime         time.Time
	IntervalMinutes int
	Open            int // Cents
	High            int
	Low             int
	Close           int
	Volume          int64
	OpenInterest    int64
}

// NewSnapshot builds a Snapshot from a normalized book plus point-in-time
// metadata. The book's summary fields are copied, not recomputed.
func NewSnapshot(ticker string, ts time.Time, book Book, openInterest *int64) Snapshot {
	return Snapshot{
		ID:            uuid.New(),
		Ticker:        ticker,
		Timestamp:     ts.UTC(),
		BestBid:       book.BestBid,
		BestAsk:       book.BestAsk,
		Mid:           book.Mid,
		Spread:        book.Spread,
		TotalBidDepth: book.TotalBidDepth,
		TotalAskDepth: book.TotalAskDepth,
		OpenInterest:  openInterest,
	}
}
