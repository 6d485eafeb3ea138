package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// VesselPriceQuery quotes the next purchase of a vessel type for a player
type VesselPriceQuery struct {
	PlayerID   string
	VesselType string
}

// VesselPriceResponse is the price quote
type VesselPriceResponse struct {
	Type      string `json:"type"`
	Price     int    `json:"price"`
	Owned     int    `json:"owned"`
	BasePrice int    `json:"basePrice"`
}

// VesselPriceHandler handles price quotes
type VesselPriceHandler struct {
	vessels vessel.VesselRepository
	rules   *appVessel.GameRules
}

// NewVesselPriceHandler creates a new vessel price handler
func NewVesselPriceHandler(vessels vessel.VesselRepository, rules *appVessel.GameRules) *VesselPriceHandler {
	return &VesselPriceHandler{vessels: vessels, rules: rules}
}

// Handle executes the query
func (h *VesselPriceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*VesselPriceQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	vesselType, err := shared.ParseVesselType(query.VesselType)
	if err != nil {
		return nil, err
	}
	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	owned, err := h.vessels.CountByOwnerAndType(ctx, playerID, vesselType)
	if err != nil {
		return nil, fmt.Errorf("failed to count vessels: %w", err)
	}
	price, err := h.rules.Pricing.Price(vesselType, owned)
	if err != nil {
		return nil, err
	}
	return &VesselPriceResponse{
		Type:      vesselType.String(),
		Price:     price,
		Owned:     owned,
		BasePrice: h.rules.Pricing.BasePrices[vesselType],
	}, nil
}
