package config

import "time"

// TrackerConfig is the root configuration for a tracker instance.
type TrackerConfig struct {
	API       APIConfig       `yaml:"api"`
	Series    SeriesConfig    `yaml:"series"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Collector CollectorConfig `yaml:"collector"`
	Health    HealthConfig    `yaml:"health"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig holds Kalshi API settings. All tracked endpoints are public,
// so no credentials are required.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second across all workers
}

// SeriesConfig selects which markets the tracker follows.
type SeriesConfig struct {
	Ticker string `yaml:"ticker"` // e.g. KXNFLGAME
	Status string `yaml:"status"` // market status filter for discovery
	// GameDuration is subtracted from a market's expected expiration
	// to estimate the game start time.
	GameDuration time.Duration `yaml:"game_duration"`
}

// DatabaseConfig holds the embedded SQLite store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig holds the adaptive polling cadence.
type SchedulerConfig struct {
	FarInterval   time.Duration `yaml:"far_interval"`   // cadence when start is more than NearThreshold away
	NearInterval  time.Duration `yaml:"near_interval"`  // cadence inside the NearThreshold window
	NearThreshold time.Duration `yaml:"near_threshold"` // how far before start the near cadence begins
}

// CollectorConfig holds snapshot collection settings.
type CollectorConfig struct {
	Tick         time.Duration `yaml:"tick"`          // how often due markets are re-evaluated
	Concurrency  int           `yaml:"concurrency"`   // max concurrent market fetches per pass
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // per-market fetch budget
	CycleBackoff time.Duration `yaml:"cycle_backoff"` // pause after a persistence failure
}

// HealthConfig holds the liveness endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
