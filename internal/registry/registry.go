package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rickgao/kalshi-liquidity/internal/api"
	"github.com/rickgao/kalshi-liquidity/internal/config"
	"github.com/rickgao/kalshi-liquidity/internal/model"
)

// delistAfterMisses is how many consecutive discovery passes a known game
// may be absent from the listing before it is dropped from the poll set.
// Postponed and cancelled games leave the listing well before their
// estimated start.
const delistAfterMisses = 3

// MarketSource lists markets from the exchange.
type MarketSource interface {
	GetAllMarkets(ctx context.Context, opts api.GetMarketsOptions) ([]api.APIMarket, error)
}

// Sink persists discovered games and markets.
type Sink interface {
	UpsertGame(ctx context.Context, g model.Game) error
	UpsertMarket(ctx context.Context, m model.Market) error
}

// Tracked pairs a market with its game's start time for scheduling.
type Tracked struct {
	Market model.Market
	Start  time.Time
}

// Registry holds the in-memory set of tracked games and markets.
// Safe for concurrent use.
type Registry struct {
	source       MarketSource
	sink         Sink
	logger       *slog.Logger
	seriesTicker string
	status       string
	gameDuration time.Duration

	mu      sync.RWMutex
	games   map[string]model.Game   // keyed by event ticker
	markets map[string]model.Market // keyed by event ticker; one tracked side per game
	misses  map[string]int          // consecutive passes a known game was absent
}

// New creates a Registry for one market series.
func New(source MarketSource, sink Sink, cfg config.SeriesConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		source:       source,
		sink:         sink,
		logger:       logger,
		seriesTicker: cfg.Ticker,
		status:       cfg.Status,
		gameDuration: cfg.GameDuration,
		games:        make(map[string]model.Game),
		markets:      make(map[string]model.Market),
		misses:       make(map[string]int),
	}
}

// Refresh runs one discovery pass: list the series' markets, fold mirrored
// pairs down to one tracked market per game, and persist anything new.
// Already-known games keep their recorded start times. Markets that cannot
// be interpreted are logged and skipped rather than failing the pass.
func (r *Registry) Refresh(ctx context.Context) error {
	apiMarkets, err := r.source.GetAllMarkets(ctx, api.GetMarketsOptions{
		SeriesTicker: r.seriesTicker,
		Status:       r.status,
	})
	if err != nil {
		return fmt.Errorf("list markets for %s: %w", r.seriesTicker, err)
	}

	// One market per game: the lexicographically smallest ticker wins so
	// the choice is stable across discovery passes.
	byEvent := make(map[string]api.APIMarket)
	for _, m := range apiMarkets {
		if m.EventTicker == "" || m.Ticker == "" {
			continue
		}
		if cur, ok := byEvent[m.EventTicker]; !ok || m.Ticker < cur.Ticker {
			byEvent[m.EventTicker] = m
		}
	}

	added := 0
	for event, am := range byEvent {
		r.mu.RLock()
		_, known := r.games[event]
		r.mu.RUnlock()
		if known {
			continue
		}

		game, market, err := r.interpret(event, am)
		if err != nil {
			r.logger.Warn("skipping market", "event_ticker", event, "ticker", am.Ticker, "error", err)
			continue
		}

		if err := r.sink.UpsertGame(ctx, game); err != nil {
			return err
		}
		if err := r.sink.UpsertMarket(ctx, market); err != nil {
			return err
		}

		r.mu.Lock()
		r.games[event] = game
		r.markets[event] = market
		r.mu.Unlock()
		added++

		r.logger.Info("tracking new game",
			"event_ticker", event,
			"ticker", market.Ticker,
			"start_time", game.StartTime,
		)
	}

	dropped := r.dropDelisted(byEvent)

	r.logger.Debug("discovery pass complete",
		"listed", len(apiMarkets),
		"games", len(byEvent),
		"added", added,
		"dropped", dropped,
	)
	return nil
}

// dropDelisted counts known games absent from this pass's listing and
// removes any that have been gone for delistAfterMisses passes in a row.
// Stored rows are untouched; a game that reappears is rediscovered as new.
func (r *Registry) dropDelisted(listed map[string]api.APIMarket) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for event := range r.games {
		if _, ok := listed[event]; ok {
			delete(r.misses, event)
			continue
		}
		r.misses[event]++
		if r.misses[event] < delistAfterMisses {
			continue
		}
		r.logger.Info("dropping delisted game",
			"event_ticker", event,
			"ticker", r.markets[event].Ticker,
			"missed_passes", r.misses[event],
		)
		delete(r.games, event)
		delete(r.markets, event)
		delete(r.misses, event)
		dropped++
	}
	return dropped
}

// interpret converts one API market into a Game plus its tracked Market.
func (r *Registry) interpret(event string, am api.APIMarket) (model.Game, model.Market, error) {
	exp, ok := api.ParseTime(am.ExpectedExpirationTime)
	if !ok {
		return model.Game{}, model.Market{}, fmt.Errorf("missing or invalid expected expiration time %q", am.ExpectedExpirationTime)
	}

	side, err := marketSide(am.Ticker)
	if err != nil {
		return model.Game{}, model.Market{}, err
	}

	away, home, err := splitTeams(event, side)
	if err != nil {
		return model.Game{}, model.Market{}, err
	}

	game := model.Game{
		EventTicker: event,
		HomeTeam:    home,
		AwayTeam:    away,
		StartTime:   exp.Add(-r.gameDuration).UTC(),
	}
	market := model.Market{
		Ticker:      am.Ticker,
		EventTicker: event,
		Side:        side,
	}
	return game, market, nil
}

// Tracked returns the current poll set ordered by market ticker.
func (r *Registry) Tracked() []Tracked {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tracked, 0, len(r.markets))
	for event, m := range r.markets {
		out = append(out, Tracked{Market: m, Start: r.games[event].StartTime})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Market.Ticker < out[j].Market.Ticker
	})
	return out
}

// Len returns the number of tracked games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
