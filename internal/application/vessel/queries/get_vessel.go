package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
)

// GetVesselQuery reads one vessel, completing a due travel first
type GetVesselQuery struct {
	VesselID string
}

// GetVesselHandler handles the GetVessel query
type GetVesselHandler struct {
	completer *appVessel.TravelCompleter
}

// NewGetVesselHandler creates a new get vessel handler
func NewGetVesselHandler(completer *appVessel.TravelCompleter) *GetVesselHandler {
	return &GetVesselHandler{completer: completer}
}

// Handle executes the query
func (h *GetVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetVesselQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, query.VesselID)
	if err != nil {
		return nil, err
	}
	return ToVesselDTO(v), nil
}
