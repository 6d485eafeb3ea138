package steps

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// storeRetryContext holds state for store retry scenarios. The store is a
// scripted function so each attempt's outcome is known up front.
type storeRetryContext struct {
	clock    *shared.MockClock
	retryCfg config.RetryConfig
	breaker  *database.Breaker
	cooldown time.Duration

	failuresLeft int
	permanent    error
	calls        int
	sleepsBefore int
	lastErr      error
}

func (src *storeRetryContext) reset() {
	src.clock = shared.NewMockClock(time.Unix(0, 0))
	src.retryCfg = config.RetryConfig{MaxAttempts: 1}
	src.breaker = nil
	src.cooldown = 0
	src.failuresLeft = 0
	src.permanent = nil
	src.calls = 0
	src.sleepsBefore = 0
	src.lastErr = nil
}

func (src *storeRetryContext) aRetrierAllowingAttempts(attempts, baseMillis int) error {
	src.retryCfg = config.RetryConfig{
		MaxAttempts: attempts,
		BackoffBase: time.Duration(baseMillis) * time.Millisecond,
	}
	return nil
}

func (src *storeRetryContext) aBreakerOpeningAfter(threshold, cooldownSeconds int) error {
	src.cooldown = time.Duration(cooldownSeconds) * time.Second
	src.breaker = database.NewBreaker(threshold, src.cooldown, src.clock)
	return nil
}

func (src *storeRetryContext) theStoreDropsTheConnection(times int) error {
	src.failuresLeft = times
	return nil
}

func (src *storeRetryContext) theStoreIsDown() error {
	src.failuresLeft = 1 << 30
	return nil
}

func (src *storeRetryContext) theStoreIsBack() error {
	src.failuresLeft = 0
	return nil
}

func (src *storeRetryContext) theStoreRejectsWithConstraintViolation() error {
	src.permanent = shared.NewConflictError(shared.CodeDuplicateEntry, "UNIQUE constraint failed: players.username")
	return nil
}

func (src *storeRetryContext) theOperationRuns(operation string) error {
	r := database.NewRetrier(src.retryCfg, src.clock, src.breaker, zerolog.Nop()).WithoutJitter()
	src.calls = 0
	src.sleepsBefore = len(src.clock.Sleeps())
	src.lastErr = r.Do(context.Background(), operation, func(ctx context.Context) error {
		src.calls++
		if src.permanent != nil {
			return src.permanent
		}
		if src.failuresLeft > 0 {
			src.failuresLeft--
			return syscall.ECONNRESET
		}
		return nil
	})
	return nil
}

// lastRunSleeps is the backoff of the most recent run only
func (src *storeRetryContext) lastRunSleeps() []time.Duration {
	return src.clock.Sleeps()[src.sleepsBefore:]
}

func (src *storeRetryContext) theOperationShouldSucceedAfter(attempts int) error {
	if src.lastErr != nil {
		return fmt.Errorf("expected success, got %v", src.lastErr)
	}
	if src.calls != attempts {
		return fmt.Errorf("expected %d attempts, got %d", attempts, src.calls)
	}
	return nil
}

func (src *storeRetryContext) theOperationShouldFailAfter(code string, attempts int) error {
	if src.lastErr == nil {
		return fmt.Errorf("expected %s, but the operation succeeded", code)
	}
	if got := shared.CodeOf(src.lastErr); got != code {
		return fmt.Errorf("expected code %s, got %s (%v)", code, got, src.lastErr)
	}
	if src.calls != attempts {
		return fmt.Errorf("expected %d attempts, got %d", attempts, src.calls)
	}
	return nil
}

func (src *storeRetryContext) theRetrierShouldHaveWaited(list string) error {
	var want []time.Duration
	for _, part := range strings.Split(list, ",") {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		want = append(want, d)
	}
	got := src.lastRunSleeps()
	if len(got) != len(want) {
		return fmt.Errorf("expected waits %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected waits %v, got %v", want, got)
		}
	}
	return nil
}

func (src *storeRetryContext) theRetrierShouldNotHaveWaited() error {
	if sleeps := src.lastRunSleeps(); len(sleeps) != 0 {
		return fmt.Errorf("expected no waits, got %v", sleeps)
	}
	return nil
}

func (src *storeRetryContext) theBreakerShouldBe(state string) error {
	if src.breaker == nil {
		return fmt.Errorf("no breaker configured")
	}
	if got := src.breaker.State().String(); got != state {
		return fmt.Errorf("expected breaker %s, got %s", state, got)
	}
	return nil
}

func (src *storeRetryContext) theCooldownElapses() error {
	src.clock.Advance(src.cooldown)
	return nil
}

// InitializeStoreRetryScenario registers steps for transient store failures
func InitializeStoreRetryScenario(sc *godog.ScenarioContext) {
	src := &storeRetryContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		src.reset()
		return ctx, nil
	})

	sc.Step(`^a store retrier allowing (\d+) attempts with a (\d+)ms backoff base$`, src.aRetrierAllowingAttempts)
	sc.Step(`^a store breaker that opens after (\d+) failed operations for (\d+) seconds$`, src.aBreakerOpeningAfter)
	sc.Step(`^the store drops the connection (\d+) times$`, src.theStoreDropsTheConnection)
	sc.Step(`^the store is down$`, src.theStoreIsDown)
	sc.Step(`^the store is back$`, src.theStoreIsBack)
	sc.Step(`^the store rejects the write with a constraint violation$`, src.theStoreRejectsWithConstraintViolation)
	sc.Step(`^the operation "([^"]*)" runs$`, src.theOperationRuns)
	sc.Step(`^the operation should succeed after (\d+) attempts?$`, src.theOperationShouldSucceedAfter)
	sc.Step(`^the operation should fail with code "([^"]*)" after (\d+) attempts?$`, src.theOperationShouldFailAfter)
	sc.Step(`^the retrier should have waited (.+)$`, src.theRetrierShouldHaveWaited)
	sc.Step(`^the retrier should not have waited$`, src.theRetrierShouldNotHaveWaited)
	sc.Step(`^the store breaker should be (\w+)$`, src.theBreakerShouldBe)
	sc.Step(`^the breaker cooldown elapses$`, src.theCooldownElapses)
}
