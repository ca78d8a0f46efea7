package book

import (
	"sort"

	"github.com/rickgao/kalshi-liquidity/internal/model"
)

// Normalize builds a unified bid/ask book from the raw YES and NO bid ladders.
//
// Duplicate prices within one ladder are summed rather than overwritten; the
// exchange feed may repeat a level. Summary fields (best bid/ask, mid, spread)
// are nil when the relevant side is empty.
func Normalize(yes, no []model.QuoteLevel) model.Book {
	bids := mergeLevels(yes, identity)
	asks := mergeLevels(no, invert)

	// Best bid first.
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	// Best ask first.
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	b := model.Book{
		Bids:          bids,
		Asks:          asks,
		TotalBidDepth: sumDepth(bids),
		TotalAskDepth: sumDepth(asks),
	}

	if len(bids) > 0 {
		best := bids[0].Price
		b.BestBid = &best
	}
	if len(asks) > 0 {
		best := asks[0].Price
		b.BestAsk = &best
	}
	if b.BestBid != nil && b.BestAsk != nil {
		mid := float64(*b.BestBid+*b.BestAsk) / 2
		spread := *b.BestAsk - *b.BestBid
		b.Mid = &mid
		b.Spread = &spread
	}

	return b
}

func identity(price int) int { return price }

// invert maps a NO bid price to its YES-equivalent ask price.
func invert(price int) int { return 100 - price }

// mergeLevels sums quantities at duplicate prices, applying the price
// transform before merging. Order of the input is irrelevant.
func mergeLevels(levels []model.QuoteLevel, transform func(int) int) []model.QuoteLevel {
	byPrice := make(map[int]int, len(levels))
	for _, l := range levels {
		byPrice[transform(l.Price)] += l.Quantity
	}

	merged := make([]model.QuoteLevel, 0, len(byPrice))
	for price, qty := range byPrice {
		merged = append(merged, model.QuoteLevel{Price: price, Quantity: qty})
	}
	return merged
}

func sumDepth(levels []model.QuoteLevel) int {
	total := 0
	for _, l := range levels {
		total += l.Quantity
	}
	return total
}
