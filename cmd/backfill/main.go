package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/kalshi-liquidity/internal/api"
	"github.com/rickgao/kalshi-liquidity/internal/config"
	"github.com/rickgao/kalshi-liquidity/internal/model"
	"github.com/rickgao/kalshi-liquidity/internal/store"
	"github.com/rickgao/kalshi-liquidity/internal/version"
)

// backfill fetches historical OHLC candles for one event's markets and
// stores them alongside the live snapshot series.
func main() {
	configPath := flag.String("config", "configs/tracker.yaml", "path to config file")
	eventTicker := flag.String("event", "", "event ticker to backfill (required)")
	startStr := flag.String("start", "", "range start, RFC 3339 (required)")
	endStr := flag.String("end", "", "range end, RFC 3339 (required)")
	interval := flag.Int("interval", 60, "candle interval in minutes (1, 60, or 1440)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *eventTicker == "" || *startStr == "" || *endStr == "" {
		logger.Error("missing required flags", "event", *eventTicker, "start", *startStr, "end", *endStr)
		flag.Usage()
		os.Exit(2)
	}

	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		logger.Error("invalid start time", "error", err)
		os.Exit(2)
	}
	end, err := time.Parse(time.RFC3339, *endStr)
	if err != nil {
		logger.Error("invalid end time", "error", err)
		os.Exit(2)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("starting backfill",
		"version", version.Version,
		"event", *eventTicker,
		"start", start,
		"end", end,
		"interval_minutes", *interval,
	)

	ctx := context.Background()

	db, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithRateLimit(cfg.API.RateLimit),
	)

	markets, err := apiClient.GetAllMarkets(ctx, api.GetMarketsOptions{EventTicker: *eventTicker})
	if err != nil {
		logger.Error("failed to list event markets", "error", err)
		os.Exit(1)
	}
	if len(markets) == 0 {
		logger.Error("event has no markets", "event", *eventTicker)
		os.Exit(1)
	}

	// The candlestick endpoint serves whole events, and the mirror market
	// carries the same series inverted. One fetch, stored under the same
	// side the collector tracks.
	ticker := trackedTicker(markets)

	resp, err := apiClient.GetCandlesticks(ctx, cfg.Series.Ticker, *eventTicker, api.GetCandlesticksOptions{
		StartTS:        start.Unix(),
		EndTS:          end.Unix(),
		PeriodInterval: *interval,
	})
	if err != nil {
		logger.Error("failed to fetch candles", "event", *eventTicker, "error", err)
		os.Exit(1)
	}

	candles := make([]model.Candle, 0, len(resp.Candlesticks))
	for _, cs := range resp.Candlesticks {
		candles = append(candles, cs.ToModel(ticker, *interval))
	}

	n, err := db.InsertCandles(ctx, candles)
	if err != nil {
		logger.Error("failed to store candles", "ticker", ticker, "error", err)
		os.Exit(1)
	}

	logger.Info("backfill complete", "ticker", ticker, "fetched", len(candles), "inserted", n)
}

// trackedTicker picks the same market the collector tracks for an event,
// the lexicographically smallest ticker of the mirror pair.
func trackedTicker(markets []api.APIMarket) string {
	t := markets[0].Ticker
	for _, m := range markets[1:] {
		if m.Ticker < t {
			t = m.Ticker
		}
	}
	return t
}
