package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/economy"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/domain/vessel"
)

// UnloadCargoCommand sells the vessel's cargo into its current port
type UnloadCargoCommand struct {
	VesselID string
}

// GenerationDTO describes a generation run triggered by a deposit
type GenerationDTO struct {
	Generated string         `json:"generated"`
	Amount    int            `json:"amount"`
	Used      map[string]int `json:"used"`
}

// UnloadCargoResponse is the settlement of one unload
type UnloadCargoResponse struct {
	VesselID         string         `json:"vesselId"`
	Commodity        string         `json:"commodity"`
	Amount           int            `json:"amount"`
	SalePricePerUnit int            `json:"salePricePerUnit"`
	SaleValue        int            `json:"saleValue"`
	PurchaseCost     int            `json:"purchaseCost"`
	GrossProfit      int            `json:"grossProfit"`
	Fees             int            `json:"fees"`
	Tax              int            `json:"tax"`
	NetProfit        int            `json:"netProfit"`
	Reward           int            `json:"reward"`
	Distance         float64        `json:"distance"`
	Coins            int            `json:"coins"`
	Generation       *GenerationDTO `json:"generation,omitempty"`
}

// UnloadCargoHandler orchestrates a cargo sale.
//
// Order: deposit into the port, run the generation engine, settle, pay the
// payout in one credit, book earnings, and clear the cargo last. A cargo
// that cannot be cleared after the payout is an invariant violation since a
// retry would pay twice.
type UnloadCargoHandler struct {
	vessels   vessel.VesselRepository
	ports     market.PortRepository
	earnings  player.EarningsRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewUnloadCargoHandler creates a new unload cargo handler
func NewUnloadCargoHandler(
	vessels vessel.VesselRepository,
	ports market.PortRepository,
	earnings player.EarningsRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *UnloadCargoHandler {
	return &UnloadCargoHandler{
		vessels:   vessels,
		ports:     ports,
		earnings:  earnings,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the unload cargo command
func (h *UnloadCargoHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UnloadCargoCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	v, err := h.completer.Load(ctx, cmd.VesselID)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateUnload(); err != nil {
		return nil, err
	}

	hold := v.Cargo()
	port, distance, err := h.resolveRoute(ctx, hold.PurchasePortID, v.CurrentPortID())
	if err != nil {
		return nil, err
	}

	// The deposit is the first write; from here the request runs to completion
	ctx = context.WithoutCancel(ctx)

	deposited, err := h.ports.AdjustStock(ctx, port.ID(), map[shared.Commodity]int{hold.Commodity: hold.Amount}, h.rules.Prices)
	if err != nil {
		return nil, fmt.Errorf("failed to deposit cargo: %w", err)
	}
	entry := deposited[hold.Commodity]

	generation := h.runGeneration(ctx, port, hold.Commodity)

	settlement, err := h.settle(hold, entry, distance, v.CrewLevel())
	if err != nil {
		return nil, h.withdrawDeposit(ctx, port, hold, generation, err)
	}
	settlement.Generation = generation

	balance, err := h.pay(ctx, v, port, settlement)
	if err != nil {
		return nil, h.withdrawDeposit(ctx, port, hold, generation, err)
	}

	h.bookEarnings(ctx, v.OwnerID(), settlement.NetProfit)

	v.ClearCargo(settlement.NetProfit, h.clock.Now())
	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, invariantBroken(ctx, "unload",
			fmt.Sprintf("payout of %d settled but cargo of vessel %s not cleared", settlement.Payout, v.ID()), err)
	}

	metrics.RecordSettlement(hold.Commodity.String(), settlement.GrossProfit, settlement.NetProfit, settlement.Fees, settlement.Tax)
	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Cargo unloaded", map[string]interface{}{
		"vessel_id":  v.ID(),
		"port":       port.Name(),
		"commodity":  hold.Commodity.String(),
		"amount":     hold.Amount,
		"payout":     settlement.Payout,
		"net_profit": settlement.NetProfit,
	})

	return toUnloadResponse(v.ID(), settlement, balance), nil
}

// resolveRoute returns the sale port and the purchase-to-sale distance
func (h *UnloadCargoHandler) resolveRoute(ctx context.Context, purchasePortID, salePortID string) (*market.Port, float64, error) {
	salePort, err := h.ports.FindByID(ctx, salePortID)
	if err != nil {
		return nil, 0, err
	}
	purchasePort, err := h.ports.FindByID(ctx, purchasePortID)
	if err != nil {
		return nil, 0, err
	}
	return salePort, h.rules.Planner.Distance(purchasePort, salePort), nil
}

// withdrawDeposit takes the deposited cargo back out of the port after a
// failed payout so a retried unload deposits it only once. Once generation
// has consumed part of the deposit it can no longer be withdrawn.
func (h *UnloadCargoHandler) withdrawDeposit(ctx context.Context, port *market.Port, hold *shared.CargoHold, generation *market.GenerationResult, cause error) error {
	if generation != nil {
		return invariantBroken(ctx, "unload",
			fmt.Sprintf("payout failed after %s at %s consumed the deposited %s", generation.Generated, port.Name(), hold.Commodity), cause)
	}
	if err := restock(ctx, h.ports, h.rules.Prices, port.ID(), hold.Commodity, -hold.Amount); err != nil {
		return err
	}

	common.LoggerFromContext(ctx).Log(common.LevelWarn, "Deposit withdrawn after failed payout", map[string]interface{}{
		"port":      port.Name(),
		"commodity": hold.Commodity.String(),
		"amount":    hold.Amount,
		"cause":     cause.Error(),
	})
	return cause
}

// runGeneration converts banked inputs when the deposit completed a recipe.
// A failed generation leaves the inputs banked for the next deposit.
func (h *UnloadCargoHandler) runGeneration(ctx context.Context, port *market.Port, deposited shared.Commodity) *market.GenerationResult {
	rule, ok := h.rules.Recipes.ForPort(port.Name())
	if !ok || !rule.RequiresCommodity(deposited) {
		return nil
	}

	logger := common.LoggerFromContext(ctx)
	current, err := h.ports.FindByID(ctx, port.ID())
	if err != nil {
		logger.Log(common.LevelWarn, "Generation skipped, port reload failed", map[string]interface{}{
			"port":  port.Name(),
			"error": err.Error(),
		})
		return nil
	}

	result := rule.Plan(current)
	if result == nil {
		return nil
	}

	if _, err := h.ports.AdjustStock(ctx, port.ID(), result.Deltas(), h.rules.Prices); err != nil {
		logger.Log(common.LevelWarn, "Generation skipped, stock changed concurrently", map[string]interface{}{
			"port":  port.Name(),
			"error": err.Error(),
		})
		return nil
	}

	metrics.RecordGeneration(port.Name(), result.Generated.String(), result.Amount)
	logger.Log(common.LevelInfo, "Port generated resources", map[string]interface{}{
		"port":      port.Name(),
		"generated": result.Generated.String(),
		"amount":    result.Amount,
		"cycles":    result.Cycles,
	})
	return result
}

func (h *UnloadCargoHandler) settle(hold *shared.CargoHold, entry market.StockEntry, distance float64, crew int) (economy.Settlement, error) {
	curve, err := h.rules.Prices.Curve(hold.Commodity)
	if err != nil {
		return economy.Settlement{}, err
	}
	return h.rules.Settlement.Settle(economy.Sale{
		Cargo:              hold,
		PostDepositPrice:   entry.Price,
		StockBeforeDeposit: entry.Amount - hold.Amount,
		CeilingPrice:       curve.Ceiling(),
		Distance:           distance,
		CrewLevel:          crew,
	}), nil
}

// pay credits the payout in a single operation and returns the new balance
func (h *UnloadCargoHandler) pay(ctx context.Context, v *vessel.Vessel, port *market.Port, s economy.Settlement) (int, error) {
	if s.Payout <= 0 {
		return h.treasury.Balance(ctx, v.OwnerID())
	}
	balance, err := h.treasury.Credit(ctx, appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      s.Payout,
		Type:        ledger.TransactionTypeSellCargo,
		Description: fmt.Sprintf("Sold %d %s at %s", s.Cargo.Amount, s.Cargo.Commodity, port.Name()),
		Metadata: map[string]interface{}{
			"commodity":      s.Cargo.Commodity.String(),
			"amount":         s.Cargo.Amount,
			"price_per_unit": s.SalePricePerUnit,
			"gross_profit":   s.GrossProfit,
			"fees":           s.Fees,
			"tax":            s.Tax,
			"net_profit":     s.NetProfit,
			"distance":       s.Distance,
		},
		VesselID: v.ID(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to pay unload reward: %w", err)
	}
	return balance, nil
}

func (h *UnloadCargoHandler) bookEarnings(ctx context.Context, playerID shared.PlayerID, netProfit int) {
	if netProfit <= 0 || h.earnings == nil {
		return
	}
	if _, err := h.earnings.Add(ctx, playerID, netProfit, h.clock.Now()); err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to record earnings", map[string]interface{}{
			"player_id":  playerID.String(),
			"net_profit": netProfit,
			"error":      err.Error(),
		})
	}
}

func toUnloadResponse(vesselID string, s economy.Settlement, balance int) *UnloadCargoResponse {
	resp := &UnloadCargoResponse{
		VesselID:         vesselID,
		Commodity:        s.Cargo.Commodity.String(),
		Amount:           s.Cargo.Amount,
		SalePricePerUnit: s.SalePricePerUnit,
		SaleValue:        s.SaleValue,
		PurchaseCost:     s.CostBasis,
		GrossProfit:      s.GrossProfit,
		Fees:             s.Fees,
		Tax:              s.Tax,
		NetProfit:        s.NetProfit,
		Reward:           s.Payout,
		Distance:         s.Distance,
		Coins:            balance,
	}
	if g := s.Generation; g != nil {
		used := make(map[string]int, len(g.Used))
		for c, n := range g.Used {
			used[c.String()] = n
		}
		resp.Generation = &GenerationDTO{Generated: g.Generated.String(), Amount: g.Amount, Used: used}
	}
	return resp
}
