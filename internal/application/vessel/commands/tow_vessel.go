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

// TowVesselCommand moves a vessel instantly to a producing port: the fuel
// producer for a stranded vessel (the default) or the materials producer
// for repairs
type TowVesselCommand struct {
	VesselID string
	Target   appVessel.TowTarget
}

// TowVesselResponse reports the tow
type TowVesselResponse struct {
	VesselID       string  `json:"vesselId"`
	Target         string  `json:"target"`
	FromPortID     string  `json:"fromPortId"`
	ToPortID       string  `json:"toPortId"`
	ToPortName     string  `json:"toPortName"`
	Distance       float64 `json:"distance"`
	Fee            int     `json:"fee"`
	CoinsRemaining int     `json:"coinsRemaining"`
}

// TowVesselHandler handles emergency tows
type TowVesselHandler struct {
	vessels   vessel.VesselRepository
	ports     market.PortRepository
	treasury  *appVessel.Treasury
	completer *appVessel.TravelCompleter
	rules     *appVessel.GameRules
	clock     shared.Clock
}

// NewTowVesselHandler creates a new tow handler
func NewTowVesselHandler(
	vessels vessel.VesselRepository,
	ports market.PortRepository,
	treasury *appVessel.Treasury,
	completer *appVessel.TravelCompleter,
	rules *appVessel.GameRules,
	clock shared.Clock,
) *TowVesselHandler {
	return &TowVesselHandler{
		vessels:   vessels,
		ports:     ports,
		treasury:  treasury,
		completer: completer,
		rules:     rules,
		clock:     shared.ClockOrDefault(clock),
	}
}

// Handle executes the tow command
func (h *TowVesselHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*TowVesselCommand)
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

	quote, err := h.rules.QuoteTow(ctx, h.ports, v, cmd.Target)
	if err != nil {
		return nil, err
	}

	debit := appVessel.Movement{
		PlayerID:    v.OwnerID(),
		Amount:      quote.Fee,
		Type:        ledger.TransactionTypeTow,
		Description: fmt.Sprintf("Towed %s to %s", v.Name(), quote.Destination.Name()),
		Metadata:    map[string]interface{}{"distance": quote.Distance, "to": quote.Destination.Name(), "target": string(quote.Target)},
		VesselID:    v.ID(),
	}
	balance, err := h.treasury.Debit(ctx, debit)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	from := v.CurrentPortID()
	if err := h.tow(v, quote); err != nil {
		return nil, refund(ctx, h.treasury, debit, err)
	}
	if err := h.vessels.Save(ctx, v); err != nil {
		return nil, refund(ctx, h.treasury, debit, fmt.Errorf("failed to save tow: %w", err))
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Vessel towed", map[string]interface{}{
		"vessel_id": v.ID(),
		"target":    string(quote.Target),
		"to":        quote.Destination.Name(),
		"fee":       quote.Fee,
	})

	return &TowVesselResponse{
		VesselID:       v.ID(),
		Target:         string(quote.Target),
		FromPortID:     from,
		ToPortID:       quote.Destination.ID(),
		ToPortName:     quote.Destination.Name(),
		Distance:       quote.Distance,
		Fee:            quote.Fee,
		CoinsRemaining: balance,
	}, nil
}

func (h *TowVesselHandler) tow(v *vessel.Vessel, quote *appVessel.TowQuote) error {
	if quote.Target == appVessel.TowToMaterials {
		return v.TowForRepair(quote.Destination.ID(), quote.Fee, h.clock.Now())
	}
	return v.TowTo(quote.Destination.ID(), quote.Fee, h.clock.Now())
}
