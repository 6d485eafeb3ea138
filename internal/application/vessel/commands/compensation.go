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
)

// refund returns a debit whose follow-up step failed. The original failure
// is returned unless the refund itself fails, which is an invariant breach.
func refund(ctx context.Context, treasury *appVessel.Treasury, debit appVessel.Movement, cause error) error {
	debit.Type = ledger.TransactionTypeRefund
	debit.Description = fmt.Sprintf("Refund: %s", debit.Description)

	if _, err := treasury.Credit(ctx, debit); err != nil {
		return invariantBroken(ctx, "refund", fmt.Sprintf("failed to refund %d coins to player %s", debit.Amount, debit.PlayerID), err)
	}

	common.LoggerFromContext(ctx).Log(common.LevelWarn, "Debit refunded after failed step", map[string]interface{}{
		"player_id": debit.PlayerID.String(),
		"amount":    debit.Amount,
		"cause":     cause.Error(),
	})
	return cause
}

// restock applies a compensating stock delta: positive puts withdrawn units
// back, negative takes a deposit out again
func restock(ctx context.Context, ports market.PortRepository, prices market.PriceBook, portID string, c shared.Commodity, amount int) error {
	if _, err := ports.AdjustStock(ctx, portID, map[shared.Commodity]int{c: amount}, prices); err != nil {
		return invariantBroken(ctx, "restock", fmt.Sprintf("failed to adjust %s at port %s by %d", c, portID, amount), err)
	}
	return nil
}

// invariantBroken logs at error level, counts the violation and builds the error
func invariantBroken(ctx context.Context, operation, message string, cause error) error {
	metrics.RecordInvariantViolation(operation)
	common.LoggerFromContext(ctx).Log(common.LevelError, "Invariant violation", map[string]interface{}{
		"operation": operation,
		"message":   message,
		"error":     cause.Error(),
	})
	return shared.NewInvariantViolation(message, cause)
}
