package database

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

// Retrier repeats store operations that fail with transient errors.
// Attempt n waits base * 2^(n-1) with jitter before running again.
// Permanent errors are returned at once and unchanged; exhausted retries
// come back as a shared.TransientError so callers can map them to a
// service-unavailable response.
type Retrier struct {
	maxAttempts int
	backoffBase time.Duration
	clock       shared.Clock
	breaker     *Breaker
	logger      zerolog.Logger
	jitter      func(time.Duration) time.Duration
}

// NewRetrier builds a retrier from config. The breaker is optional.
func NewRetrier(cfg config.RetryConfig, clock shared.Clock, breaker *Breaker, logger zerolog.Logger) *Retrier {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		maxAttempts: attempts,
		backoffBase: cfg.BackoffBase,
		clock:       shared.ClockOrDefault(clock),
		breaker:     breaker,
		logger:      logger,
		jitter:      addJitter,
	}
}

// NewNoopRetrier runs every operation exactly once. Tests use it when they
// want store errors surfaced as they are.
func NewNoopRetrier() *Retrier {
	return &Retrier{
		maxAttempts: 1,
		clock:       shared.NewRealClock(),
		logger:      zerolog.Nop(),
		jitter:      func(d time.Duration) time.Duration { return d },
	}
}

// WithoutJitter makes backoff delays exact
func (r *Retrier) WithoutJitter() *Retrier {
	r.jitter = func(d time.Duration) time.Duration { return d }
	return r
}

// Do runs fn until it succeeds, fails permanently or runs out of attempts
func (r *Retrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if r.breaker == nil {
		return r.attempt(ctx, operation, fn)
	}

	err := r.breaker.Call(func() error {
		return r.attempt(ctx, operation, fn)
	})
	if errors.Is(err, ErrStoreUnavailable) {
		metrics.RecordStoreRetry(operation, metrics.StoreRejected)
		return shared.NewTransientError(err, 0)
	}
	return err
}

func (r *Retrier) attempt(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if Classify(lastErr) == Permanent {
			return lastErr
		}
		if attempt == r.maxAttempts {
			break
		}

		delay := r.jitter(r.backoffBase * time.Duration(1<<(attempt-1)))
		metrics.RecordStoreRetry(operation, metrics.StoreRetried)
		r.logger.Warn().
			Err(lastErr).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("transient store error, retrying")

		// Stop early if the caller is gone
		select {
		case <-ctx.Done():
			return shared.NewTransientError(lastErr, attempt)
		default:
		}

		r.clock.Sleep(delay)
	}

	metrics.RecordStoreRetry(operation, metrics.StoreExhausted)
	r.logger.Error().
		Err(lastErr).
		Str("operation", operation).
		Int("attempts", r.maxAttempts).
		Msg("store retries exhausted")

	var already *shared.TransientError
	if errors.As(lastErr, &already) {
		return lastErr
	}
	return shared.NewTransientError(lastErr, r.maxAttempts)
}

// Retry is Do for operations that return a value
func Retry[T any](ctx context.Context, r *Retrier, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// addJitter spreads a delay over 50% to 150% of its value
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	factor := 0.5 + rand.Float64()
	return time.Duration(float64(d) * factor)
}
