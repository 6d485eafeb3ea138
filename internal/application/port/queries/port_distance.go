package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/navigation"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// PortDistanceQuery measures the distance between two ports by name
type PortDistanceQuery struct {
	From string
	To   string
}

// PortDistanceResponse is the measured distance in nautical miles
type PortDistanceResponse struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
}

// PortDistanceHandler handles the PortDistance query
type PortDistanceHandler struct {
	portRepo market.PortRepository
	planner  *navigation.TripPlanner
}

// NewPortDistanceHandler creates a new PortDistanceHandler
func NewPortDistanceHandler(portRepo market.PortRepository, planner *navigation.TripPlanner) *PortDistanceHandler {
	return &PortDistanceHandler{portRepo: portRepo, planner: planner}
}

// Handle executes the PortDistance query
func (h *PortDistanceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*PortDistanceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PortDistanceQuery")
	}
	if query.From == "" || query.To == "" {
		return nil, shared.NewValidationError("from", "both from and to port names are required")
	}

	from, err := h.portRepo.FindByName(ctx, query.From)
	if err != nil {
		return nil, err
	}
	to, err := h.portRepo.FindByName(ctx, query.To)
	if err != nil {
		return nil, err
	}

	return &PortDistanceResponse{
		From:     from.Name(),
		To:       to.Name(),
		Distance: h.planner.Distance(from, to),
	}, nil
}
