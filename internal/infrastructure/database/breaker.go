package database

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// BreakerState is the position of the store breaker
type BreakerState int

const (
	// BreakerClosed lets every store call through
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects store calls until the cooldown has passed
	BreakerOpen
	// BreakerHalfOpen lets one trial request through to see whether the store is back
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// ErrStoreUnavailable is returned without touching the store while the breaker is open
var ErrStoreUnavailable = errors.New("store unavailable: breaker open")

// Breaker stops hammering a store that keeps failing with connectivity
// errors. Only transient failures count; a missing row or a constraint
// violation proves the store is reachable and resets the count.
type Breaker struct {
	threshold   int
	cooldown    time.Duration
	state       BreakerState
	failures    int
	lastFailure time.Time
	mu          sync.RWMutex
	clock       shared.Clock
}

// NewBreaker creates a breaker that opens after threshold consecutive
// transient failures. If clock is nil, uses RealClock.
func NewBreaker(threshold int, cooldown time.Duration, clock shared.Clock) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		state:     BreakerClosed,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Call runs fn unless the breaker is open
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == BreakerOpen {
		if b.clock.Now().Sub(b.lastFailure) < b.cooldown {
			b.mu.Unlock()
			return ErrStoreUnavailable
		}
		b.state = BreakerHalfOpen
	}
	b.mu.Unlock()

	// fn may sleep between retries, so it runs without the lock
	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil && Classify(err) == Transient {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return err
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailure = b.clock.Now()

	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.state = BreakerOpen
	}
}

func (b *Breaker) onSuccess() {
	b.failures = 0
	b.state = BreakerClosed
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Failures returns the consecutive transient failure count
func (b *Breaker) Failures() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.failures
}

// Reset closes the breaker
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
}
