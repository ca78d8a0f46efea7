package api

import (
	"time"

	"github.com/rickgao/kalshi-liquidity/internal/model"
)

// ParseTime parses an ISO 8601 timestamp. Returns a zero time and false for
// empty or invalid input.
func ParseTime(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}, false
		}
	}

	return t.UTC(), true
}

// Ladders converts the raw orderbook into YES and NO quote ladders.
// Malformed levels (fewer than two elements) are dropped.
func (o *APIOrderbook) Ladders() (yes, no []model.QuoteLevel) {
	yes = make([]model.QuoteLevel, 0, len(o.Yes))
	for _, level := range o.Yes {
		if len(level) >= 2 {
			yes = append(yes, model.QuoteLevel{Price: level[0], Quantity: level[1]})
		}
	}

	no = make([]model.QuoteLevel, 0, len(o.No))
	for _, level := range o.No {
		if len(level) >= 2 {
			no = append(no, model.QuoteLevel{Price: level[0], Quantity: level[1]})
		}
	}

	return yes, no
}

// ToModel converts an APICandlestick to a model.Candle for the given market.
func (cs *APICandlestick) ToModel(ticker string, intervalMinutes int) model.Candle {
	return model.Candle{
		Ticker:          ticker,
		EndTime:         time.Unix(cs.EndPeriodTS, 0).UTC(),
		IntervalMinutes: intervalMinutes,
		Open:            cs.Price.Open,
		High:            cs.Price.High,
		Low:             cs.Price.Low,
		Close:           cs.Price.Close,
		Volume:          cs.Volume,
		OpenInterest:    cs.OpenInterest,
	}
}
