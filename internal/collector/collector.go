package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/kalshi-liquidity/internal/api"
	"github.com/rickgao/kalshi-liquidity/internal/book"
	"github.com/rickgao/kalshi-liquidity/internal/config"
	"github.com/rickgao/kalshi-liquidity/internal/model"
	"github.com/rickgao/kalshi-liquidity/internal/registry"
)

// ErrPersistence marks store write failures so the run loop can back off
// instead of hammering a broken database.
var ErrPersistence = errors.New("persistence failure")

// Fetcher provides per-market data from the exchange.
type Fetcher interface {
	GetOrderbook(ctx context.Context, ticker string, depth int) (*api.OrderbookResponse, error)
	GetMarket(ctx context.Context, ticker string) (*api.APIMarket, error)
}

// Registry provides the set of markets to poll.
type Registry interface {
	Refresh(ctx context.Context) error
	Tracked() []registry.Tracked
}

// Scheduler answers due-ness queries and records successful polls.
type Scheduler interface {
	Due(ticker string, start time.Time) bool
	MarkPolled(ticker string)
	Stopped(ticker string) bool
}

// Sink persists collected snapshots.
type Sink interface {
	AppendSnapshot(ctx context.Context, snap model.Snapshot, levels []model.DepthLevel) error
}

// PassResult summarizes one collection pass.
type PassResult struct {
	Attempted int
	Succeeded int
	Failed    int
	Persist   int // failures that were store writes, not fetches
}

// Collector owns the collection loop.
type Collector struct {
	cfg    config.CollectorConfig
	client Fetcher
	reg    Registry
	sched  Scheduler
	sink   Sink
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock overrides the snapshot timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(c *Collector) {
		c.clock = clock
	}
}

// New creates a Collector.
func New(cfg config.CollectorConfig, client Fetcher, reg Registry, sched Scheduler, sink Sink, logger *slog.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collector{
		cfg:    cfg,
		client: client,
		reg:    reg,
		sched:  sched,
		sink:   sink,
		logger: logger,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectSnapshot fetches, normalizes, and persists one market's book.
// Market metadata is best-effort: if the open interest lookup fails the
// snapshot is stored without it.
func (c *Collector) CollectSnapshot(ctx context.Context, ticker string) error {
	ob, err := c.client.GetOrderbook(ctx, ticker, 0) // 0 = all levels
	if err != nil {
		return fmt.Errorf("fetch orderbook: %w", err)
	}

	var openInterest *int64
	if mkt, err := c.client.GetMarket(ctx, ticker); err != nil {
		c.logger.Warn("market metadata unavailable", "ticker", ticker, "err", err)
	} else {
		openInterest = &mkt.OpenInterest
	}

	yes, no := ob.Orderbook.Ladders()
	b := book.Normalize(yes, no)
	if b.Crossed() {
		c.logger.Warn("crossed book observed", "ticker", ticker,
			"best_bid", *b.BestBid, "best_ask", *b.BestAsk)
	}

	snap := model.NewSnapshot(ticker, c.clock(), b, openInterest)
	if err := c.sink.AppendSnapshot(ctx, snap, model.DepthLevels(snap.ID, b)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// RunPass collects every due market once, with bounded concurrency.
// Failed markets are logged and left unmarked so they come due again on
// the next pass. Markets already in flight are never interrupted by ctx;
// cancellation only prevents new fetches from starting.
func (c *Collector) RunPass(ctx context.Context) PassResult {
	start := time.Now()

	var due []registry.Tracked
	for _, t := range c.reg.Tracked() {
		if c.sched.Due(t.Market.Ticker, t.Start) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		c.logger.Debug("no markets due")
		return PassResult{}
	}

	// Detached from ctx so in-flight fetches finish during shutdown.
	passCtx := context.WithoutCancel(ctx)

	var succeeded, failed, persist atomic.Int64
	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)

	attempted := 0
	for _, t := range due {
		if ctx.Err() != nil {
			break
		}
		attempted++
		ticker := t.Market.Ticker
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(passCtx, c.cfg.FetchTimeout)
			defer cancel()

			if err := c.CollectSnapshot(fetchCtx, ticker); err != nil {
				c.logger.Warn("failed to collect market", "ticker", ticker, "err", err)
				failed.Add(1)
				if errors.Is(err, ErrPersistence) {
					persist.Add(1)
				}
				return nil
			}

			c.sched.MarkPolled(ticker)
			succeeded.Add(1)
			return nil
		})
	}
	g.Wait()

	result := PassResult{
		Attempted: attempted,
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Persist:   int(persist.Load()),
	}
	c.logger.Info("collection pass complete",
		"due", len(due),
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration", time.Since(start),
	)
	return result
}

// Run is the continuous collection loop. Each tick refreshes the registry
// and runs one pass. Discovery failures keep the existing market set; a
// pass with persistence failures backs off before the next tick. Run
// returns once ctx is canceled and any in-flight pass has finished.
func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	c.logger.Info("collector started",
		"tick", c.cfg.Tick,
		"concurrency", c.cfg.Concurrency,
	)

	// Collect immediately on start.
	c.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("collector stopped")
			return nil
		case <-ticker.C:
			c.cycle(ctx)
		}
	}
}

func (c *Collector) cycle(ctx context.Context) {
	if err := c.reg.Refresh(ctx); err != nil {
		c.logger.Error("discovery failed, keeping existing market set", "err", err)
	}

	tracked := c.reg.Tracked()
	if len(tracked) > 0 && c.allStopped(tracked) {
		c.logger.Debug("all tracked games have started, idling")
		return
	}

	result := c.RunPass(ctx)
	if result.Persist > 0 {
		c.logger.Warn("backing off after persistence failures",
			"failures", result.Persist,
			"backoff", c.cfg.CycleBackoff,
		)
		select {
		case <-ctx.Done():
		case <-time.After(c.cfg.CycleBackoff):
		}
	}
}

func (c *Collector) allStopped(tracked []registry.Tracked) bool {
	for _, t := range tracked {
		if !c.sched.Stopped(t.Market.Ticker) {
			return false
		}
	}
	return true
}
