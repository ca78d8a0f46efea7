package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/kalshi-liquidity/internal/api"
	"github.com/rickgao/kalshi-liquidity/internal/collector"
	"github.com/rickgao/kalshi-liquidity/internal/config"
	"github.com/rickgao/kalshi-liquidity/internal/registry"
	"github.com/rickgao/kalshi-liquidity/internal/schedule"
	"github.com/rickgao/kalshi-liquidity/internal/store"
	"github.com/rickgao/kalshi-liquidity/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/tracker.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single discovery and collection pass, then exit")
	flag.Parse()

	// Bootstrap logger; replaced once the configured level is known.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting tracker",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"series", cfg.Series.Ticker,
		"once", *once,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the embedded store
	db, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database open", "path", cfg.Database.Path)

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithRateLimit(cfg.API.RateLimit),
	)

	// Check exchange status
	status, err := apiClient.GetExchangeStatus(ctx)
	if err != nil {
		logger.Error("failed to get exchange status", "error", err)
		os.Exit(1)
	}
	logger.Info("exchange status",
		"exchange_active", status.ExchangeActive,
		"trading_active", status.TradingActive,
	)

	reg := registry.New(apiClient, db, cfg.Series, logger)
	sched := schedule.New(
		cfg.Scheduler.FarInterval,
		cfg.Scheduler.NearInterval,
		cfg.Scheduler.NearThreshold,
	)
	coll := collector.New(cfg.Collector, apiClient, reg, sched, db, logger)

	if *once {
		os.Exit(runOnce(ctx, reg, coll, logger))
	}

	// Health server for liveness checks
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: healthHandler(db, reg),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Blocks until the signal handler cancels ctx; in-flight fetches
	// finish before Run returns.
	if err := coll.Run(ctx); err != nil {
		logger.Error("collector error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("tracker stopped")
}

// runOnce performs one discovery and collection pass. The exit code is
// nonzero only when the pass achieved nothing at all.
func runOnce(ctx context.Context, reg *registry.Registry, coll *collector.Collector, logger *slog.Logger) int {
	if err := reg.Refresh(ctx); err != nil {
		logger.Error("discovery failed", "error", err)
		return 1
	}

	result := coll.RunPass(ctx)
	if result.Attempted > 0 && result.Succeeded == 0 {
		logger.Error("all due markets failed", "attempted", result.Attempted)
		return 1
	}
	return 0
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// healthHandler reports store and registry health as JSON.
func healthHandler(db *store.Store, reg *registry.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}

		health.Components["registry"] = map[string]any{
			"games": reg.Len(),
		}
		if reg.Len() == 0 {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
