package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/logging"
)

// TravelSweeper completes every voyage whose arrival time has passed.
// Reads already complete travel lazily; the sweep keeps idle vessels from
// sitting at sea forever.
type TravelSweeper struct {
	mediator common.Mediator
	timeout  time.Duration
	log      zerolog.Logger
}

// NewTravelSweeper creates the sweep job
func NewTravelSweeper(mediator common.Mediator, timeout time.Duration, log zerolog.Logger) *TravelSweeper {
	return &TravelSweeper{
		mediator: mediator,
		timeout:  timeout,
		log:      log.With().Str("job", "travel_sweeper").Logger(),
	}
}

// Name implements Job
func (t *TravelSweeper) Name() string {
	return "travel_sweeper"
}

// Run implements Job
func (t *TravelSweeper) Run() error {
	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	_, err := t.Sweep(ctx)
	return err
}

// Sweep runs one pass and reports what it did
func (t *TravelSweeper) Sweep(ctx context.Context) (*commands.SweepDueTravelsResponse, error) {
	ctx = common.WithLogger(ctx, logging.NewContextLogger(t.log))

	resp, err := t.mediator.Send(ctx, &commands.SweepDueTravelsCommand{})
	if err != nil {
		return nil, fmt.Errorf("sweep failed: %w", err)
	}
	result, ok := resp.(*commands.SweepDueTravelsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected sweep response %T", resp)
	}

	if result.Completed > 0 || result.Failed > 0 {
		t.log.Info().
			Int("checked", result.Checked).
			Int("completed", result.Completed).
			Int("failed", result.Failed).
			Msg("Travel sweep finished")
	}
	return result, nil
}
