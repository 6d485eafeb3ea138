package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// TripPreviewQuery prices a voyage without starting it
type TripPreviewQuery struct {
	VesselID          string
	DestinationPortID string
}

// TripPreviewResponse is the voyage quote
type TripPreviewResponse struct {
	FromPortID        string    `json:"fromPortId"`
	DestinationPortID string    `json:"destinationPortId"`
	Distance          float64   `json:"distance"`
	FuelCost          int       `json:"fuelCost"`
	CurrentFuel       int       `json:"currentFuel"`
	CanAfford         bool      `json:"canAfford"`
	TravelTimeSeconds int       `json:"travelTime"`
	EstimatedArrival  time.Time `json:"estimatedArrival"`
}

// TripPreviewHandler handles trip previews
type TripPreviewHandler struct {
	ports     market.PortRepository
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewTripPreviewHandler creates a new trip preview handler
func NewTripPreviewHandler(ports market.PortRepository, completer *appVessel.TravelCompleter, rules *appVessel.GameRules, clock shared.Clock) *TripPreviewHandler {
	return &TripPreviewHandler{ports: ports, completer: completer, rules: rules, clock: shared.ClockOrDefault(clock)}
}

// Handle executes the query
func (h *TripPreviewHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*TripPreviewQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, query.VesselID)
	if err != nil {
		return nil, err
	}
	from, err := h.ports.FindByID(ctx, v.CurrentPortID())
	if err != nil {
		return nil, err
	}
	to, err := h.ports.FindByID(ctx, query.DestinationPortID)
	if err != nil {
		return nil, err
	}

	plan := h.rules.Planner.Plan(v.Type(), from, to, v.IsLoaded())
	return &TripPreviewResponse{
		FromPortID:        from.ID(),
		DestinationPortID: to.ID(),
		Distance:          plan.Distance,
		FuelCost:          plan.FuelCost,
		CurrentFuel:       v.Fuel().Current,
		CanAfford:         v.Fuel().CanAfford(plan.FuelCost),
		TravelTimeSeconds: int(plan.Duration.Seconds()),
		EstimatedArrival:  h.clock.Now().Add(plan.Duration),
	}, nil
}
