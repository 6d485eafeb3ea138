package config

import "time"

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// PID file location; empty disables single-instance enforcement
	PIDFile string `mapstructure:"pid_file"`

	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig holds cross-origin settings for the browser client
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age" validate:"min=0"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	// Sustained requests per second per client address
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// IdempotencyConfig bounds the in-memory replay store
type IdempotencyConfig struct {
	TTL        time.Duration `mapstructure:"ttl" validate:"required"`
	MaxEntries int           `mapstructure:"max_entries" validate:"min=1"`
}

// SweeperConfig controls the periodic travel completion pass
type SweeperConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Cron spec, e.g. "@every 30s"
	Schedule string `mapstructure:"schedule" validate:"required"`

	// Upper bound for one pass
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// RetryConfig holds retry configuration for transient store failures
type RetryConfig struct {
	// Total attempts including the first one
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`

	// Consecutive exhausted calls before the store breaker opens
	BreakerThreshold int `mapstructure:"breaker_threshold" validate:"min=1"`

	// How long an open breaker fails fast before letting a trial request through
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}
