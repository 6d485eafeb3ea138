package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
)

// CompleteTravelCommand completes one vessel's travel if it is due
type CompleteTravelCommand struct {
	VesselID string
}

// CompleteTravelResponse reports whether an arrival was applied
type CompleteTravelResponse struct {
	VesselID      string `json:"vesselId"`
	Completed     bool   `json:"completed"`
	IsTraveling   bool   `json:"isTraveling"`
	CurrentPortID string `json:"currentPortId"`
}

// CompleteTravelHandler is the on-demand arrival check
type CompleteTravelHandler struct {
	completer *appVessel.TravelCompleter
}

// NewCompleteTravelHandler creates a new complete travel handler
func NewCompleteTravelHandler(completer *appVessel.TravelCompleter) *CompleteTravelHandler {
	return &CompleteTravelHandler{completer: completer}
}

// Handle executes the complete travel command
func (h *CompleteTravelHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CompleteTravelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, completed, err := h.completer.LoadAndReport(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}

	return &CompleteTravelResponse{
		VesselID:      v.ID(),
		Completed:     completed,
		IsTraveling:   v.IsTraveling(),
		CurrentPortID: v.CurrentPortID(),
	}, nil
}
