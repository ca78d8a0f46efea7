package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL       = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultAPITimeout    = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRateLimit     = 20.0
	DefaultSeriesTicker  = "KXNFLGAME"
	DefaultSeriesStatus  = "open"
	DefaultGameDuration  = 3*time.Hour + 30*time.Minute
	DefaultDatabasePath  = "data/liquidity.db"
	DefaultFarInterval   = 60 * time.Minute
	DefaultNearInterval  = 15 * time.Minute
	DefaultNearThreshold = 24 * time.Hour
	DefaultTick          = 1 * time.Minute
	DefaultConcurrency   = 10
	DefaultFetchTimeout  = 10 * time.Second
	DefaultCycleBackoff  = 30 * time.Second
	DefaultHealthPort    = 8080
	DefaultLogLevel      = "info"
)

func (c *TrackerConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = DefaultRateLimit
	}

	// Series defaults
	if c.Series.Ticker == "" {
		c.Series.Ticker = DefaultSeriesTicker
	}
	if c.Series.Status == "" {
		c.Series.Status = DefaultSeriesStatus
	}
	if c.Series.GameDuration == 0 {
		c.Series.GameDuration = DefaultGameDuration
	}

	// Database defaults
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}

	// Scheduler defaults
	if c.Scheduler.FarInterval == 0 {
		c.Scheduler.FarInterval = DefaultFarInterval
	}
	if c.Scheduler.NearInterval == 0 {
		c.Scheduler.NearInterval = DefaultNearInterval
	}
	if c.Scheduler.NearThreshold == 0 {
		c.Scheduler.NearThreshold = DefaultNearThreshold
	}

	// Collector defaults
	if c.Collector.Tick == 0 {
		c.Collector.Tick = DefaultTick
	}
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultConcurrency
	}
	if c.Collector.FetchTimeout == 0 {
		c.Collector.FetchTimeout = DefaultFetchTimeout
	}
	if c.Collector.CycleBackoff == 0 {
		c.Collector.CycleBackoff = DefaultCycleBackoff
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
