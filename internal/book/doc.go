// Package book converts the exchange's split YES/NO quoting convention into a
// conventional bid/ask orderbook.
//
// Kalshi-style binary markets quote two independent bid-only ladders: bids on
// the YES outcome and bids on the NO outcome. A NO bid at price p is
// economically a YES ask at 100-p, so the unified book expresses every level
// in YES-equivalent cents:
//
//	bids = YES bids, best (highest) first
//	asks = 100 - NO bid price, best (lowest) first
//
// Normalize is pure and performs no correction of market anomalies: a crossed
// book (best bid >= best ask) is presented faithfully.
package book
