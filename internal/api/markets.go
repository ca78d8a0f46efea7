package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultPaginationTimeout bounds full-listing pagination when the caller's
// context carries no deadline.
const DefaultPaginationTimeout = 10 * time.Minute

// GetExchangeStatus fetches the current exchange status.
func (c *Client) GetExchangeStatus(ctx context.Context) (*ExchangeStatusResponse, error) {
	var resp ExchangeStatusResponse
	if err := c.get(ctx, "/exchange/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get exchange status: %w", err)
	}
	return &resp, nil
}

// GetMarkets fetches a page of markets.
func (c *Client) GetMarkets(ctx context.Context, opts GetMarketsOptions) (*MarketsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.EventTicker != "" {
		query.Set("event_ticker", opts.EventTicker)
	}
	if opts.SeriesTicker != "" {
		query.Set("series_ticker", opts.SeriesTicker)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp MarketsResponse
	if err := c.get(ctx, "/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	return &resp, nil
}

// GetAllMarkets fetches all markets matching the given options by paginating
// through results. Uses DefaultPaginationTimeout if the context has no deadline.
func (c *Client) GetAllMarkets(ctx context.Context, opts GetMarketsOptions) ([]APIMarket, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPaginationTimeout)
		defer cancel()
	}

	var allMarkets []APIMarket
	opts.Limit = 1000 // Max page size

	for {
		resp, err := c.GetMarkets(ctx, opts)
		if err != nil {
			return nil, err
		}

		allMarkets = append(allMarkets, resp.Markets...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return allMarkets, nil
}

// GetMarket fetches a single market by ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (*APIMarket, error) {
	var resp SingleMarketResponse
	if err := c.get(ctx, "/markets/"+ticker, nil, &resp); err != nil {
		return nil, fmt.Errorf("get market %s: %w", ticker, err)
	}
	return &resp.Market, nil
}

// GetOrderbook fetches the orderbook for a market.
func (c *Client) GetOrderbook(ctx context.Context, ticker string, depth int) (*OrderbookResponse, error) {
	query := url.Values{}
	if depth > 0 {
		query.Set("depth", strconv.Itoa(depth))
	}

	var resp OrderbookResponse
	if err := c.get(ctx, "/markets/"+ticker+"/orderbook", query, &resp); err != nil {
		return nil, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}

	return &resp, nil
}

// GetCandlesticks fetches historical OHLC candles for an event.
func (c *Client) GetCandlesticks(ctx context.Context, seriesTicker, eventTicker string, opts GetCandlesticksOptions) (*CandlesticksResponse, error) {
	query := url.Values{}
	query.Set("start_ts", strconv.FormatInt(opts.StartTS, 10))
	query.Set("end_ts", strconv.FormatInt(opts.EndTS, 10))
	if opts.PeriodInterval > 0 {
		query.Set("period_interval", strconv.Itoa(opts.PeriodInterval))
	}

	path := "/series/" + seriesTicker + "/events/" + eventTicker + "/candlesticks"

	var resp CandlesticksResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get candlesticks %s: %w", eventTicker, err)
	}

	return &resp, nil
}
