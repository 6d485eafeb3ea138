package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// PurchaseVesselCommand buys a new vessel for a player
type PurchaseVesselCommand struct {
	PlayerID   string
	VesselType string
	Name       string // optional
}

// PurchaseVesselResponse reports the purchase
type PurchaseVesselResponse struct {
	VesselID       string `json:"vesselId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Price          int    `json:"price"`
	PortID         string `json:"portId"`
	PortName       string `json:"portName"`
	CoinsRemaining int    `json:"coinsRemaining"`
}

// PurchaseVesselHandler handles vessel purchases at progressive prices
type PurchaseVesselHandler struct {
	vessels  vessel.VesselRepository
	players  player.PlayerRepository
	ports    market.PortRepository
	treasury *appVessel.Treasury
	rules    *appVessel.GameRules
	clock    shared.Clock
}

// NewPurchaseVesselHandler creates a new purchase handler
func NewPurchaseVesselHandler(
	vessels vessel.VesselRepository,
	players player.PlayerRepository,
	ports market.PortRepository,
	treasury *appVessel.Treasury,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *PurchaseVesselHandler {
	return &PurchaseVesselHandler{
		vessels:  vessels,
		players:  players,
		ports:    ports,
		treasury: treasury,
		rules:    rules,
		clock:    shared.ClockOrDefault(clock),
	}
}

// Handle executes the purchase command
func (h *PurchaseVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PurchaseVesselCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	vesselType, err := shared.ParseVesselType(cmd.VesselType)
	if err != nil {
		return nil, err
	}
	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}
	if _, err := h.players.FindByID(ctx, playerID); err != nil {
		return nil, err
	}

	owned, err := h.vessels.CountByOwnerAndType(ctx, playerID, vesselType)
	if err != nil {
		return nil, fmt.Errorf("failed to count vessels: %w", err)
	}
	price, err := h.rules.Pricing.Price(vesselType, owned)
	if err != nil {
		return nil, err
	}

	port, err := h.rules.StartingPort(ctx, h.ports, vesselType)
	if err != nil {
		return nil, err
	}

	v, err := h.build(playerID, vesselType, h.vesselName(cmd.Name, vesselType, owned), port.ID())
	if err != nil {
		return nil, err
	}

	debit := appVessel.Movement{
		PlayerID:    playerID,
		Amount:      price,
		Type:        ledger.TransactionTypePurchaseVessel,
		Description: fmt.Sprintf("Bought %s %q", vesselType, v.Name()),
		Metadata:    map[string]interface{}{"type": vesselType.String(), "owned_before": owned},
		VesselID:    v.ID(),
	}
	balance, err := h.treasury.Debit(ctx, debit)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, refund(ctx, h.treasury, debit, fmt.Errorf("failed to save vessel: %w", err))
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Vessel purchased", map[string]interface{}{
		"player_id": playerID.String(),
		"vessel_id": v.ID(),
		"type":      vesselType.String(),
		"price":     price,
		"port":      port.Name(),
	})

	return &PurchaseVesselResponse{
		VesselID:       v.ID(),
		Name:           v.Name(),
		Type:           vesselType.String(),
		Price:          price,
		PortID:         port.ID(),
		PortName:       port.Name(),
		CoinsRemaining: balance,
	}, nil
}

func (h *PurchaseVesselHandler) build(owner shared.PlayerID, vesselType shared.VesselType, name, portID string) (*vessel.Vessel, error) {
	initial := h.rules.Initial
	fuel, err := shared.NewFuel(initial.Fuel, initial.MaxFuel)
	if err != nil {
		return nil, err
	}
	health, err := shared.NewHealth(initial.Health, initial.MaxHealth)
	if err != nil {
		return nil, err
	}
	return vessel.NewVessel(owner, name, vesselType, portID, fuel, health, initial.CrewLevel, h.clock.Now())
}

func (h *PurchaseVesselHandler) vesselName(requested string, vesselType shared.VesselType, owned int) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	t := vesselType.String()
	return fmt.Sprintf("%s%s #%d", strings.ToUpper(t[:1]), t[1:], owned+1)
}
