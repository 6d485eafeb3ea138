package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// RepairVesselCommand restores hull health. A nil Amount repairs fully.
type RepairVesselCommand struct {
	VesselID string
	Amount   *int
}

// RepairVesselResponse reports the repair
type RepairVesselResponse struct {
	VesselID       string `json:"vesselId"`
	Repaired       int    `json:"repaired"`
	Cost           int    `json:"cost"`
	Health         int    `json:"health"`
	MaxHealth      int    `json:"maxHealth"`
	CoinsRemaining int    `json:"coinsRemaining"`
}

// RepairVesselHandler handles repairs
type RepairVesselHandler struct {
	vessels   vessel.VesselRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewRepairVesselHandler creates a new repair handler
func NewRepairVesselHandler(
	vessels vessel.VesselRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *RepairVesselHandler {
	return &RepairVesselHandler{
		vessels:   vessels,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the repair command
func (h *RepairVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RepairVesselCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}

	amount, err := v.RepairAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	cost := h.rules.Repair.Cost(amount)

	debit := appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      cost,
		Type:        ledger.TransactionTypeRepair,
		Description: fmt.Sprintf("Repaired %d health on %s", amount, v.Name()),
		Metadata:    map[string]interface{}{"health": amount},
		VesselID:    v.ID(),
	}
	balance, err := h.treasury.Debit(ctx, debit)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	v.Repair(amount, cost, h.clock.Now())
	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, refund(ctx, h.treasury, debit, fmt.Errorf("failed to save repair: %w", err))
	}

	return &RepairVesselResponse{
		VesselID:       v.ID(),
		Repaired:       amount,
		Cost:           cost,
		Health:         v.Health().Current,
		MaxHealth:      v.Health().Max,
		CoinsRemaining: balance,
	}, nil
}
