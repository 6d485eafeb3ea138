package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
)

// ListPortsQuery lists every port with its stock
type ListPortsQuery struct{}

// ListPortsResponse contains the ports ordered by name
type ListPortsResponse struct {
	Ports []*PortDTO `json:"ports"`
}

// ListPortsHandler handles the ListPorts query
type ListPortsHandler struct {
	portRepo market.PortRepository
}

// NewListPortsHandler creates a new ListPortsHandler
func NewListPortsHandler(portRepo market.PortRepository) *ListPortsHandler {
	return &ListPortsHandler{portRepo: portRepo}
}

// Handle executes the ListPorts query
func (h *ListPortsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListPortsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPortsQuery")
	}

	ports, err := h.portRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}

	dtos := make([]*PortDTO, len(ports))
	for i, p := range ports {
		dtos[i] = ToPortDTO(p)
	}
	return &ListPortsResponse{Ports: dtos}, nil
}
