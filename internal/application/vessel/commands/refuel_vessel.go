package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// RefuelVesselCommand buys fuel from the current port
type RefuelVesselCommand struct {
	VesselID string
	Amount   int
}

// RefuelVesselResponse reports the refuel. Amount may be lower than
// requested when the tank had less room.
type RefuelVesselResponse struct {
	VesselID       string `json:"vesselId"`
	Requested      int    `json:"requested"`
	Amount         int    `json:"amount"`
	PricePerUnit   int    `json:"pricePerUnit"`
	Cost           int    `json:"cost"`
	Fuel           int    `json:"fuel"`
	MaxFuel        int    `json:"maxFuel"`
	CoinsRemaining int    `json:"coinsRemaining"`
}

// RefuelVesselHandler handles refuels. Fuel is only sold where it is produced
// and at that port's current price for the fuel commodity.
type RefuelVesselHandler struct {
	vessels   vessel.VesselRepository
	ports     market.PortRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewRefuelVesselHandler creates a new refuel handler
func NewRefuelVesselHandler(
	vessels vessel.VesselRepository,
	ports market.PortRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *RefuelVesselHandler {
	return &RefuelVesselHandler{
		vessels:   vessels,
		ports:     ports,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the refuel command
func (h *RefuelVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RefuelVesselCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
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
	if !h.rules.Recipes.Produces(port.Name(), shared.FuelCommodity) {
		return nil, shared.NewRuleViolation(shared.CodeRefuelNotAvailable,
			fmt.Sprintf("fuel is not sold at %s", port.Name()))
	}

	amount, err := v.RefuelAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	stock := port.Stock(shared.FuelCommodity)
	if stock.Amount < amount {
		return nil, shared.NewInsufficientStockError(shared.FuelCommodity, amount, stock.Amount)
	}

	debit := appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      stock.Price * amount,
		Type:        ledger.TransactionTypeRefuel,
		Description: fmt.Sprintf("Refueled %d at %s", amount, port.Name()),
		Metadata: map[string]interface{}{
			"amount":         amount,
			"price_per_unit": stock.Price,
			"port":           port.Name(),
		},
		VesselID: v.ID(),
	}
	balance, err := h.treasury.Debit(ctx, debit)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	if _, err := h.ports.AdjustStock(ctx, port.ID(), map[shared.Commodity]int{shared.FuelCommodity: -amount}, h.rules.Prices); err != nil {
		return nil, refund(ctx, h.treasury, debit, err)
	}

	err = v.Refuel(amount, debit.Amount, h.clock.Now())
	if err == nil {
		err = h.vessels.Save(ctx, v)
	}
	if err != nil {
		if restockErr := restock(ctx, h.ports, h.rules.Prices, port.ID(), shared.FuelCommodity, amount); restockErr != nil {
			return nil, restockErr
		}
		return nil, refund(ctx, h.treasury, debit, fmt.Errorf("failed to save refuel: %w", err))
	}

	metrics.RecordFuelPurchase(port.Name(), amount)

	return &RefuelVesselResponse{
		VesselID:       v.ID(),
		Requested:      cmd.Amount,
		Amount:         amount,
		PricePerUnit:   stock.Price,
		Cost:           debit.Amount,
		Fuel:           v.Fuel().Current,
		MaxFuel:        v.Fuel().Capacity,
		CoinsRemaining: balance,
	}, nil
}
