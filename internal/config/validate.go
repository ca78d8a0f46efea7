package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *TrackerConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0, got %v", c.API.RateLimit)
	}

	if c.Series.Ticker == "" {
		return errors.New("series.ticker is required")
	}
	if c.Series.GameDuration <= 0 {
		return errors.New("series.game_duration must be positive")
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	if c.Scheduler.FarInterval <= 0 {
		return errors.New("scheduler.far_interval must be positive")
	}
	if c.Scheduler.NearInterval <= 0 {
		return errors.New("scheduler.near_interval must be positive")
	}
	if c.Scheduler.NearThreshold <= 0 {
		return errors.New("scheduler.near_threshold must be positive")
	}
	if c.Scheduler.NearInterval > c.Scheduler.FarInterval {
		return fmt.Errorf("scheduler.near_interval (%v) cannot exceed far_interval (%v)",
			c.Scheduler.NearInterval, c.Scheduler.FarInterval)
	}

	if c.Collector.Tick <= 0 {
		return errors.New("collector.tick must be positive")
	}
	if c.Collector.Concurrency < 1 {
		return errors.New("collector.concurrency must be >= 1")
	}
	if c.Collector.FetchTimeout <= 0 {
		return errors.New("collector.fetch_timeout must be positive")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}
