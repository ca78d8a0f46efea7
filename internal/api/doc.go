// Package api provides a read-only client for the Kalshi REST API.
//
// Endpoints used:
//   - GET /exchange/status
//   - GET /markets (filtered by series_ticker and status, paginated)
//   - GET /markets/{ticker} (metadata, open interest)
//   - GET /markets/{ticker}/orderbook (raw YES/NO bid ladders)
//   - GET /series/{series}/events/{event}/candlesticks
//
// Market data requires no authentication. All requests pass through a shared
// token bucket so aggregate request rate stays under the exchange's documented
// 20 req/s ceiling regardless of caller concurrency.
package api
