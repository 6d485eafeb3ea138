package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// RecordTransactionCommand records one coin movement that already happened
type RecordTransactionCommand struct {
	PlayerID        shared.PlayerID
	TransactionType ledger.TransactionType
	Amount          int // positive for income, negative for expenses
	BalanceAfter    int
	Description     string
	Metadata        map[string]interface{}
	VesselID        string
	Timestamp       *time.Time // optional, defaults to the handler clock
}

// RecordTransactionResponse represents the result of recording a transaction
type RecordTransactionResponse struct {
	TransactionID string
	Timestamp     time.Time
}

// RecordTransactionHandler handles the RecordTransaction command
type RecordTransactionHandler struct {
	transactionRepo ledger.TransactionRepository
	clock           shared.Clock
}

// NewRecordTransactionHandler creates a new RecordTransactionHandler
func NewRecordTransactionHandler(transactionRepo ledger.TransactionRepository, clock shared.Clock) *RecordTransactionHandler {
	return &RecordTransactionHandler{
		transactionRepo: transactionRepo,
		clock:           shared.ClockOrDefault(clock),
	}
}

// Handle executes the RecordTransaction command
func (h *RecordTransactionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RecordTransactionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordTransactionCommand")
	}

	timestamp := h.clock.Now()
	if cmd.Timestamp != nil {
		timestamp = *cmd.Timestamp
	}

	transaction, err := ledger.NewTransaction(
		cmd.PlayerID,
		timestamp,
		cmd.TransactionType,
		cmd.Amount,
		cmd.BalanceAfter,
		cmd.Description,
		cmd.Metadata,
		cmd.VesselID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := h.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	metrics.RecordTransaction(
		transaction.Type().String(),
		transaction.Category().String(),
		transaction.Amount(),
	)

	return &RecordTransactionResponse{
		TransactionID: transaction.ID().String(),
		Timestamp:     transaction.Timestamp(),
	}, nil
}
