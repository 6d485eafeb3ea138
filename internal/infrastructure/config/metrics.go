package config

import "time"

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the metrics endpoint on the API server (default: /metrics)
	Path string `mapstructure:"path"`

	// How often stock and leaderboard gauges are refreshed
	PollInterval time.Duration `mapstructure:"poll_interval"`
}
