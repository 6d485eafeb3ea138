package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// SendVesselCommand starts a voyage to another port
type SendVesselCommand struct {
	VesselID          string
	DestinationPortID string
}

// SendVesselResponse reports the voyage that was started
type SendVesselResponse struct {
	VesselID          string    `json:"vesselId"`
	FromPortID        string    `json:"fromPortId"`
	DestinationPortID string    `json:"destinationPortId"`
	Distance          float64   `json:"distance"`
	FuelCost          int       `json:"fuelCost"`
	FuelRemaining     int       `json:"fuelRemaining"`
	TravelTimeSeconds int       `json:"travelTime"`
	ArrivalTime       time.Time `json:"arrivalTime"`
}

// SendVesselHandler validates and starts voyages
type SendVesselHandler struct {
	vessels   vessel.VesselRepository
	ports     market.PortRepository
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewSendVesselHandler creates a new send vessel handler
func NewSendVesselHandler(
	vessels vessel.VesselRepository,
	ports market.PortRepository,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *SendVesselHandler {
	return &SendVesselHandler{
		vessels:   vessels,
		ports:     ports,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the send vessel command
func (h *SendVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SendVesselCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}

	// Traveling and same-destination checks come before port lookups so an
	// in-flight vessel never reports PORT_NOT_FOUND for a typo
	if v.IsTraveling() {
		return nil, shared.NewRuleViolation(shared.CodeAlreadyTraveling, "vessel is already traveling")
	}
	if cmd.DestinationPortID == v.CurrentPortID() {
		return nil, shared.NewRuleViolation(shared.CodeSameDestination, "vessel is already at this port")
	}

	from, to, err := h.loadPorts(ctx, v.CurrentPortID(), cmd.DestinationPortID)
	if err != nil {
		return nil, err
	}

	plan := h.rules.Planner.Plan(v.Type(), from, to, v.IsLoaded())
	now := h.clock.Now()
	if err := v.StartVoyage(to.ID(), plan, now); err != nil {
		return nil, err
	}

	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save vessel: %w", err)
	}

	metrics.RecordVoyage(v.Type().String(), plan.Distance, plan.FuelCost)
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Vessel departed", map[string]interface{}{
		"vessel_id": v.ID(),
		"from":      from.Name(),
		"to":        to.Name(),
		"distance":  plan.Distance,
		"fuel_cost": plan.FuelCost,
		"loaded":    v.IsLoaded(),
	})

	return &SendVesselResponse{
		VesselID:          v.ID(),
		FromPortID:        from.ID(),
		DestinationPortID: to.ID(),
		Distance:          plan.Distance,
		FuelCost:          plan.FuelCost,
		FuelRemaining:     v.Fuel().Current,
		TravelTimeSeconds: int(plan.Duration.Seconds()),
		ArrivalTime:       v.Travel().EndsAt,
	}, nil
}

func (h *SendVesselHandler) loadPorts(ctx context.Context, fromID, toID string) (*market.Port, *market.Port, error) {
	from, err := h.ports.FindByID(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	to, err := h.ports.FindByID(ctx, toID)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
