package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
)

// GetPortQuery fetches one port by id
type GetPortQuery struct {
	PortID string
}

// GetPortHandler handles the GetPort query
type GetPortHandler struct {
	portRepo market.PortRepository
}

// NewGetPortHandler creates a new GetPortHandler
func NewGetPortHandler(portRepo market.PortRepository) *GetPortHandler {
	return &GetPortHandler{portRepo: portRepo}
}

// Handle executes the GetPort query
func (h *GetPortHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPortQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPortQuery")
	}

	p, err := h.portRepo.FindByID(ctx, query.PortID)
	if err != nil {
		return nil, err
	}
	return ToPortDTO(p), nil
}
