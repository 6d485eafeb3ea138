package database

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

var errReset = syscall.ECONNRESET

func newTestRetrier(clock shared.Clock, breaker *Breaker) *Retrier {
	cfg := config.RetryConfig{MaxAttempts: 3, BackoffBase: 500 * time.Millisecond}
	return NewRetrier(cfg, clock, breaker, zerolog.Nop()).WithoutJitter()
}

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	r := newTestRetrier(clock, nil)

	calls := 0
	err := r.Do(context.Background(), "save_vessel", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errReset
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, clock.Sleeps())
}

func TestRetrier_ExhaustedBecomesTransientError(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	r := newTestRetrier(clock, nil)

	calls := 0
	err := r.Do(context.Background(), "save_vessel", func(ctx context.Context) error {
		calls++
		return errReset
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, shared.IsTransient(err))
	assert.Equal(t, shared.CodeStoreUnavailable, shared.CodeOf(err))
	assert.ErrorIs(t, err, syscall.ECONNRESET)
}

func TestRetrier_PermanentErrorIsNotRetried(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	r := newTestRetrier(clock, nil)
	notFound := shared.NewNotFoundError("port", "p-1")

	calls := 0
	err := r.Do(context.Background(), "find_port", func(ctx context.Context) error {
		calls++
		return notFound
	})

	assert.Same(t, notFound, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clock.Sleeps())
}

func TestRetrier_StopsWhenContextDone(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	r := newTestRetrier(clock, nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, "save_vessel", func(ctx context.Context) error {
		calls++
		cancel()
		return errReset
	})

	assert.True(t, shared.IsTransient(err))
	assert.Equal(t, 1, calls)
}

func TestRetry_ReturnsValue(t *testing.T) {
	r := newTestRetrier(shared.NewMockClock(time.Unix(0, 0)), nil)

	calls := 0
	got, err := Retry(context.Background(), r, "debit", func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errReset
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRetrier_OpenBreakerFailsFast(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	breaker := NewBreaker(1, time.Minute, clock)
	r := newTestRetrier(clock, breaker)

	err := r.Do(context.Background(), "save_vessel", func(ctx context.Context) error { return errReset })
	require.Error(t, err)
	assert.Equal(t, BreakerOpen, breaker.State())

	calls := 0
	err = r.Do(context.Background(), "save_vessel", func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.Equal(t, 0, calls)
	assert.True(t, shared.IsTransient(err))
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestNoopRetrier_RunsOnce(t *testing.T) {
	calls := 0
	err := NewNoopRetrier().Do(context.Background(), "x", func(ctx context.Context) error {
		calls++
		return errReset
	})
	assert.Equal(t, 1, calls)
	assert.True(t, shared.IsTransient(err))
}
