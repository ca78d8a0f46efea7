package api

// ExchangeStatusResponse from GET /exchange/status
type ExchangeStatusResponse struct {
	ExchangeActive      bool   `json:"exchange_active"`
	TradingActive       bool   `json:"trading_active"`
	EstimatedResumeTime string `json:"exchange_estimated_resume_time,omitempty"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket represents a market from the Kalshi API.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	MarketType  string `json:"market_type"`

	// Prices in cents
	YesBid    int `json:"yes_bid"`
	YesAsk    int `json:"yes_ask"`
	LastPrice int `json:"last_price"`

	// Volume
	Volume       int64 `json:"volume"`
	Volume24h    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`

	// Timestamps (ISO 8601)
	OpenTime               string `json:"open_time"`
	CloseTime              string `json:"close_time"`
	ExpectedExpirationTime string `json:"expected_expiration_time"`
	ExpirationTime         string `json:"expiration_time"`
}

// SingleMarketResponse from GET /markets/{ticker}
type SingleMarketResponse struct {
	Market APIMarket `json:"market"`
}

// OrderbookResponse from GET /markets/{ticker}/orderbook
type OrderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`
}

// APIOrderbook represents the orderbook from the Kalshi API.
// Both sides are bid ladders as [price_cents, quantity] pairs.
type APIOrderbook struct {
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`
}

// CandlesticksResponse from GET /series/{series}/events/{event}/candlesticks
type CandlesticksResponse struct {
	Candlesticks []APICandlestick `json:"candlesticks"`
}

// APICandlestick represents one OHLC bar from the Kalshi API.
type APICandlestick struct {
	EndPeriodTS  int64           `json:"end_period_ts"`
	Price        APICandlePrices `json:"price"`
	Volume       int64           `json:"volume"`
	OpenInterest int64           `json:"open_interest"`
}

// APICandlePrices holds the OHLC prices of a candlestick, in cents.
type APICandlePrices struct {
	Open  int `json:"open"`
	High  int `json:"high"`
	Low   int `json:"low"`
	Close int `json:"close"`
}

// GetMarketsOptions configures a GetMarkets request.
type GetMarketsOptions struct {
	Limit        int
	Cursor       string
	EventTicker  string
	SeriesTicker string
	Status       string
}

// GetCandlesticksOptions configures a GetCandlesticks request.
type GetCandlesticksOptions struct {
	StartTS        int64 // Unix seconds, inclusive
	EndTS          int64 // Unix seconds, inclusive
	PeriodInterval int   // Minutes: 1, 60, or 1440
}
