package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// ListVesselsQuery lists a player's fleet
type ListVesselsQuery struct {
	PlayerID string
}

// ListVesselsResponse holds the fleet
type ListVesselsResponse struct {
	Vessels []*VesselDTO `json:"vessels"`
}

// ListVesselsHandler handles the ListVessels query. Due arrivals are
// completed on the way so the list never shows a vessel stuck at sea.
type ListVesselsHandler struct {
	vessels   vessel.VesselRepository
	completer *appVessel.TravelCompleter
}

// NewListVesselsHandler creates a new list vessels handler
func NewListVesselsHandler(vessels vessel.VesselRepository, completer *appVessel.TravelCompleter) *ListVesselsHandler {
	return &ListVesselsHandler{vessels: vessels, completer: completer}
}

// Handle executes the query
func (h *ListVesselsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListVesselsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	fleet, err := h.vessels.FindByOwner(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}

	dtos := make([]*VesselDTO, 0, len(fleet))
	for _, v := range fleet {
		if _, err := h.completer.CompleteIfDue(ctx, v, appVessel.ArrivalLazy); err != nil {
			return nil, err
		}
		dtos = append(dtos, ToVesselDTO(v))
	}
	return &ListVesselsResponse{Vessels: dtos}, nil
}
