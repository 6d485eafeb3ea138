package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// SweepDueTravelsCommand completes every travel whose end has passed
type SweepDueTravelsCommand struct{}

// SweepDueTravelsResponse summarises one sweep
type SweepDueTravelsResponse struct {
	Checked   int      `json:"checked"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	VesselIDs []string `json:"vesselIds"`
}

// SweepDueTravelsHandler is the bulk arrival driver. A failing vessel is
// logged and counted; it never stops the rest of the sweep.
type SweepDueTravelsHandler struct {
	vessels   vessel.VesselRepository
	completer *appVessel.TravelCompleter
	clock     shared.Clock
}

// NewSweepDueTravelsHandler creates a new sweep handler
func NewSweepDueTravelsHandler(vessels vessel.VesselRepository, completer *appVessel.TravelCompleter, clock shared.Clock) *SweepDueTravelsHandler {
	return &SweepDueTravelsHandler{
		vessels:   vessels,
		completer: completer,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the sweep
func (h *SweepDueTravelsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*SweepDueTravelsCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := common.LoggerFromContext(ctx)
	start := time.Now()

	due, err := h.vessels.FindTravelingDueBy(ctx, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list due travels: %w", err)
	}

	resp := &SweepDueTravelsResponse{Checked: len(due), VesselIDs: []string{}}
	for _, v := range due {
		completed, err := h.completer.CompleteIfDue(ctx, v, appVessel.ArrivalSweeper)
		if err != nil {
			resp.Failed++
			logger.Log(common.LevelError, "Failed to complete travel", map[string]interface{}{
				"vessel_id": v.ID(),
				"error":     err.Error(),
			})
			continue
		}
		if completed {
			resp.Completed++
			resp.VesselIDs = append(resp.VesselIDs, v.ID())
		}
	}

	metrics.RecordSweep(resp.Completed, resp.Failed, time.Since(start).Seconds())
	if resp.Checked > 0 {
		logger.Log(common.LevelInfo, "Travel sweep finished", map[string]interface{}{
			"checked":   resp.Checked,
			"completed": resp.Completed,
			"failed":    resp.Failed,
		})
	}
	return resp, nil
}
