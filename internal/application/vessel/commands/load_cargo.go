package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// LoadCargoCommand buys commodity from the current port into the vessel
type LoadCargoCommand struct {
	VesselID  string
	Commodity string
	Amount    int
}

// LoadCargoResponse reports the purchase
type LoadCargoResponse struct {
	VesselID       string `json:"vesselId"`
	Commodity      string `json:"commodity"`
	Amount         int    `json:"amount"`
	PricePerUnit   int    `json:"pricePerUnit"`
	TotalCost      int    `json:"totalCost"`
	CoinsRemaining int    `json:"coinsRemaining"`
	PortStock      int    `json:"portStock"`
	PortPrice      int    `json:"portPrice"`
}

// LoadCargoHandler orchestrates a cargo purchase.
//
// Order matters: debit funds, then withdraw stock (refunding if that fails),
// then record the cargo on the vessel (undoing both if that fails). Once the
// debit succeeds the request no longer honours cancellation.
type LoadCargoHandler struct {
	vessels   vessel.VesselRepository
	ports     market.PortRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewLoadCargoHandler creates a new load cargo handler
func NewLoadCargoHandler(
	vessels vessel.VesselRepository,
	ports market.PortRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *LoadCargoHandler {
	return &LoadCargoHandler{
		vessels:   vessels,
		ports:     ports,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the load cargo command
func (h *LoadCargoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*LoadCargoCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	commodity, err := shared.ParseCommodity(cmd.Commodity)
	if err != nil {
		return nil, err
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateLoad(commodity, cmd.Amount, h.rules.CargoLimits); err != nil {
		return nil, err
	}

	port, err := h.ports.FindByID(ctx, v.CurrentPortID())
	if err != nil {
		return nil, err
	}
	stock, err := h.validatePort(port, commodity, cmd.Amount)
	if err != nil {
		return nil, err
	}

	debit := appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      stock.Price * cmd.Amount,
		Type:        ledger.TransactionTypePurchaseCargo,
		Description: fmt.Sprintf("Bought %d %s at %s", cmd.Amount, commodity, port.Name()),
		Metadata: map[string]interface{}{
			"commodity":      commodity.String(),
			"amount":         cmd.Amount,
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

	entries, err := h.ports.AdjustStock(ctx, port.ID(), map[shared.Commodity]int{commodity: -cmd.Amount}, h.rules.Prices)
	if err != nil {
		return nil, refund(ctx, h.treasury, debit, err)
	}

	if err := h.recordCargo(ctx, v, commodity, cmd.Amount, port.ID(), stock.Price); err != nil {
		if restockErr := restock(ctx, h.ports, h.rules.Prices, port.ID(), commodity, cmd.Amount); restockErr != nil {
			return nil, restockErr
		}
		return nil, refund(ctx, h.treasury, debit, err)
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Cargo loaded", map[string]interface{}{
		"vessel_id": v.ID(),
		"port":      port.Name(),
		"commodity": commodity.String(),
		"amount":    cmd.Amount,
		"cost":      debit.Amount,
	})

	after := entries[commodity]
	return &LoadCargoResponse{
		VesselID:       v.ID(),
		Commodity:      commodity.String(),
		Amount:         cmd.Amount,
		PricePerUnit:   stock.Price,
		TotalCost:      debit.Amount,
		CoinsRemaining: balance,
		PortStock:      after.Amount,
		PortPrice:      after.Price,
	}, nil
}

// validatePort checks the port sells the commodity in the quantity asked.
// Only a port's generated output can be bought there.
func (h *LoadCargoHandler) validatePort(port *market.Port, commodity shared.Commodity, amount int) (market.StockEntry, error) {
	if !h.rules.Recipes.Produces(port.Name(), commodity) {
		return market.StockEntry{}, shared.NewRuleViolation(shared.CodeCommodityNotProduced,
			fmt.Sprintf("%s does not produce %s", port.Name(), commodity))
	}
	stock := port.Stock(commodity)
	if stock.Amount < amount {
		return market.StockEntry{}, shared.NewInsufficientStockError(commodity, amount, stock.Amount)
	}
	return stock, nil
}

func (h *LoadCargoHandler) recordCargo(ctx context.Context, v *vessel.Vessel, commodity shared.Commodity, amount int, portID string, price int) error {
	hold, err := shared.NewCargoHold(commodity, amount, portID, price)
	if err != nil {
		return err
	}
	if err := v.LoadCargo(hold, h.rules.CargoLimits, h.clock.Now()); err != nil {
		return err
	}
	if err := h.vessels.Save(ctx, v); err != nil {
		return fmt.Errorf("failed to save vessel cargo: %w", err)
	}
	return nil
}
