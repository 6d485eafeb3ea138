package vessel

import (
	"context"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	ledgerCmd "github.com/andrescamacho/searoutes-go/internal/application/ledger/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Movement describes one coin movement and how it shows up in the ledger.
// Amount is always positive; direction comes from Debit or Credit.
type Movement struct {
	PlayerID    shared.PlayerID
	Amount      int
	Type        ledger.TransactionType
	Description string
	Metadata    map[string]interface{}
	VesselID    string
}

// Treasury moves coins through the atomic repository operations and records
// each movement in the ledger. A failed ledger write is logged, never
// propagated: the coins already moved and the caller must not retry.
type Treasury struct {
	players  player.PlayerRepository
	mediator common.Mediator
}

func NewTreasury(players player.PlayerRepository, mediator common.Mediator) *Treasury {
	return &Treasury{players: players, mediator: mediator}
}

// Debit takes coins and returns the new balance
func (t *Treasury) Debit(ctx context.Context, m Movement) (int, error) {
	balance, err := t.players.DebitCoins(ctx, m.PlayerID, m.Amount)
	if err != nil {
		return 0, err
	}
	t.record(ctx, m, -m.Amount, balance)
	return balance, nil
}

// Credit pays coins and returns the new balance
func (t *Treasury) Credit(ctx context.Context, m Movement) (int, error) {
	balance, err := t.players.CreditCoins(ctx, m.PlayerID, m.Amount)
	if err != nil {
		return 0, err
	}
	t.record(ctx, m, m.Amount, balance)
	return balance, nil
}

// Balance reads the current coins of a player
func (t *Treasury) Balance(ctx context.Context, playerID shared.PlayerID) (int, error) {
	p, err := t.players.FindByID(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return p.Coins(), nil
}

func (t *Treasury) record(ctx context.Context, m Movement, signed, balance int) {
	if t.mediator == nil || signed == 0 {
		return
	}
	_, err := t.mediator.Send(ctx, &ledgerCmd.RecordTransactionCommand{
		PlayerID:        m.PlayerID,
		TransactionType: m.Type,
		Amount:          signed,
		BalanceAfter:    balance,
		Description:     m.Description,
		Metadata:        m.Metadata,
		VesselID:        m.VesselID,
	})
	if err != nil {
		common.LoggerFromContext(ctx).Log(common.LevelError, "Failed to record transaction in ledger", map[string]interface{}{
			"error":     err.Error(),
			"player_id": m.PlayerID.String(),
			"type":      m.Type.String(),
			"amount":    signed,
		})
	}
}
