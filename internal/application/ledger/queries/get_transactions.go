package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/mediator"
	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

const maxTransactionsPage = 200

// GetTransactionsQuery lists a player's ledger, newest first
type GetTransactionsQuery struct {
	PlayerID        string
	StartDate       *time.Time
	EndDate         *time.Time
	Category        *string
	TransactionType *string
	VesselID        *string
	Limit           int
	Offset          int
}

// GetTransactionsResponse represents the result of the query
type GetTransactionsResponse struct {
	Transactions []*TransactionDTO `json:"transactions"`
	Total        int               `json:"total"`
}

// TransactionDTO represents a transaction data transfer object
type TransactionDTO struct {
	ID            string                 `json:"id"`
	PlayerID      string                 `json:"playerId"`
	Timestamp     time.Time              `json:"timestamp"`
	Type          string                 `json:"type"`
	Category      string                 `json:"category"`
	Amount        int                    `json:"amount"`
	BalanceBefore int                    `json:"balanceBefore"`
	BalanceAfter  int                    `json:"balanceAfter"`
	Description   string                 `json:"description"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	VesselID      string                 `json:"vesselId,omitempty"`
}

// GetTransactionsHandler handles the GetTransactions query
type GetTransactionsHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetTransactionsHandler creates a new GetTransactionsHandler
func NewGetTransactionsHandler(transactionRepo ledger.TransactionRepository) *GetTransactionsHandler {
	return &GetTransactionsHandler{transactionRepo: transactionRepo}
}

// Handle executes the GetTransactions query
func (h *GetTransactionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	opts, err := h.buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	total, err := h.transactionRepo.CountByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	dtos := make([]*TransactionDTO, len(transactions))
	for i, tx := range transactions {
		dtos[i] = toDTO(tx)
	}

	return &GetTransactionsResponse{
		Transactions: dtos,
		Total:        total,
	}, nil
}

func (h *GetTransactionsHandler) buildQueryOptions(query *GetTransactionsQuery) (ledger.QueryOptions, error) {
	opts := ledger.DefaultQueryOptions()
	opts.StartDate = query.StartDate
	opts.EndDate = query.EndDate
	opts.VesselID = query.VesselID

	if query.Category != nil {
		category, err := ledger.ParseCategory(*query.Category)
		if err != nil {
			return opts, err
		}
		opts.Category = &category
	}

	if query.TransactionType != nil {
		txType, err := ledger.ParseTransactionType(*query.TransactionType)
		if err != nil {
			return opts, err
		}
		opts.TransactionType = &txType
	}

	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	if opts.Limit > maxTransactionsPage {
		opts.Limit = maxTransactionsPage
	}
	if query.Offset > 0 {
		opts.Offset = query.Offset
	}

	return opts, nil
}

func toDTO(tx *ledger.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:            tx.ID().String(),
		PlayerID:      tx.PlayerID().String(),
		Timestamp:     tx.Timestamp(),
		Type:          tx.Type().String(),
		Category:      tx.Category().String(),
		Amount:        tx.Amount(),
		BalanceBefore: tx.BalanceBefore(),
		BalanceAfter:  tx.BalanceAfter(),
		Description:   tx.Description(),
		Metadata:      tx.Metadata(),
		VesselID:      tx.VesselID(),
	}
}
