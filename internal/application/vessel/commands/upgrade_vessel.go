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

// UpgradeVesselCommand trains the crew one level up
type UpgradeVesselCommand struct {
	VesselID string
}

// UpgradeVesselResponse reports the upgrade
type UpgradeVesselResponse struct {
	VesselID       string  `json:"vesselId"`
	CrewLevel      int     `json:"crewLevel"`
	MaxCrewLevel   int     `json:"maxCrewLevel"`
	Cost           int     `json:"cost"`
	SaleBonus      float64 `json:"saleBonus"`
	CoinsRemaining int     `json:"coinsRemaining"`
}

// UpgradeVesselHandler handles crew upgrades
type UpgradeVesselHandler struct {
	vessels   vessel.VesselRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewUpgradeVesselHandler creates a new upgrade handler
func NewUpgradeVesselHandler(
	vessels vessel.VesselRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *UpgradeVesselHandler {
	return &UpgradeVesselHandler{
		vessels:   vessels,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the upgrade command
func (h *UpgradeVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpgradeVesselCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateCrewUpgrade(); err != nil {
		return nil, err
	}

	from := v.CrewLevel()
	cost := h.rules.Upgrade.Cost(from)
	debit := appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      cost,
		Type:        ledger.TransactionTypeUpgrade,
		Description: fmt.Sprintf("Trained crew of %s to level %d", v.Name(), from+1),
		Metadata:    map[string]interface{}{"from_level": from, "to_level": from + 1},
		VesselID:    v.ID(),
	}
	balance, err := h.treasury.Debit(ctx, debit)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	if err := v.UpgradeCrew(cost, h.clock.Now()); err != nil {
		return nil, refund(ctx, h.treasury, debit, err)
	}
	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, refund(ctx, h.treasury, debit, fmt.Errorf("failed to save upgrade: %w", err))
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Crew upgraded", map[string]interface{}{
		"vessel_id":  v.ID(),
		"crew_level": v.CrewLevel(),
		"cost":       cost,
	})

	return &UpgradeVesselResponse{
		VesselID:       v.ID(),
		CrewLevel:      v.CrewLevel(),
		MaxCrewLevel:   vessel.MaxCrewLevel,
		Cost:           cost,
		SaleBonus:      h.rules.Settlement.CrewBonus(v.CrewLevel()),
		CoinsRemaining: balance,
	}, nil
}
