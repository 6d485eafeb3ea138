package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// RefuelInfoQuery quotes a refuel at the vessel's port
type RefuelInfoQuery struct {
	VesselID string
	Amount   int // 0 quotes a full tank
}

// RefuelInfoResponse is the refuel quote
type RefuelInfoResponse struct {
	Available    bool   `json:"available"`
	PortName     string `json:"portName"`
	PricePerUnit int    `json:"pricePerUnit"`
	MaxAmount    int    `json:"maxAmount"`
	Amount       int    `json:"amount"`
	Cost         int    `json:"cost"`
	PortStock    int    `json:"portStock"`
}

// RefuelInfoHandler handles refuel quotes
type RefuelInfoHandler struct {
	ports     market.PortRepository
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
}

// NewRefuelInfoHandler creates a new refuel info handler
func NewRefuelInfoHandler(ports market.PortRepository, completer *appVessel.TravelCompleter, rules *appVessel.GameRules) *RefuelInfoHandler {
	return &RefuelInfoHandler{ports: ports, completer: completer, rules: rules}
}

// Handle executes the query
func (h *RefuelInfoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*RefuelInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, query.VesselID)
	if err != nil {
		return nil, err
	}
	if err := v.EnsureDocked(); err != nil {
		return nil, err
	}
	port, err := h.ports.FindByID(ctx, v.CurrentPortID())
	if err != nil {
		return nil, err
	}

	resp := &RefuelInfoResponse{PortName: port.Name(), MaxAmount: v.Fuel().Missing()}
	if !h.rules.Recipes.Produces(port.Name(), shared.FuelCommodity) {
		return resp, nil
	}

	stock := port.Stock(shared.FuelCommodity)
	amount := query.Amount
	if amount <= 0 || amount > resp.MaxAmount {
		amount = resp.MaxAmount
	}
	resp.Available = true
	resp.PricePerUnit = stock.Price
	resp.PortStock = stock.Amount
	resp.Amount = amount
	resp.Cost = amount * stock.Price
	return resp, nil
}

// RepairInfoQuery quotes a repair
type RepairInfoQuery struct {
	VesselID string
	Amount   *int
}

// RepairInfoResponse is the repair quote
type RepairInfoResponse struct {
	Health        int `json:"health"`
	MaxHealth     int `json:"maxHealth"`
	Missing       int `json:"missing"`
	Amount        int `json:"amount"`
	CostPerHealth int `json:"costPerHealth"`
	Cost          int `json:"cost"`
}

// RepairInfoHandler handles repair quotes
type RepairInfoHandler struct {
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
}

// NewRepairInfoHandler creates a new repair info handler
func NewRepairInfoHandler(completer *appVessel.TravelCompleter, rules *appVessel.GameRules) *RepairInfoHandler {
	return &RepairInfoHandler{completer: completer, rules: rules}
}

// Handle executes the query
func (h *RepairInfoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*RepairInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, query.VesselID)
	if err != nil {
		return nil, err
	}

	resp := &RepairInfoResponse{
		Health:        v.Health().Current,
		MaxHealth:     v.Health().Max,
		Missing:       v.Health().Missing(),
		CostPerHealth: h.rules.Repair.CostPerHealth,
	}
	if v.Health().IsFull() {
		return resp, nil
	}

	amount, err := v.RepairAmount(query.Amount)
	if err != nil {
		return nil, err
	}
	resp.Amount = amount
	resp.Cost = h.rules.Repair.Cost(amount)
	return resp, nil
}

// TowInfoQuery quotes a tow to the producer Target names
type TowInfoQuery struct {
	VesselID string
	Target   appVessel.TowTarget
}

// TowInfoResponse is the tow quote
type TowInfoResponse struct {
	Target              string  `json:"target"`
	DestinationPortID   string  `json:"destinationPortId"`
	DestinationPortName string  `json:"destinationPortName"`
	Distance            float64 `json:"distance"`
	Fee                 int     `json:"fee"`
}

// TowInfoHandler handles tow quotes
type TowInfoHandler struct {
	ports     market.PortRepository
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
}

// NewTowInfoHandler creates a new tow info handler
func NewTowInfoHandler(ports market.PortRepository, completer *appVessel.TravelCompleter, rules *appVessel.GameRules) *TowInfoHandler {
	return &TowInfoHandler{ports: ports, completer: completer, rules: rules}
}

// Handle executes the query
func (h *TowInfoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*TowInfoQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, query.VesselID)
	if err != nil {
		return nil, err
	}
	if err := v.EnsureDocked(); err != nil {
		return nil, err
	}

	quote, err := h.rules.QuoteTow(ctx, h.ports, v, query.Target)
	if err != nil {
		return nil, err
	}
	return &TowInfoResponse{
		Target:              string(quote.Target),
		DestinationPortID:   quote.Destination.ID(),
		DestinationPortName: quote.Destination.Name(),
		Distance:            quote.Distance,
		Fee:                 quote.Fee,
	}, nil
}
