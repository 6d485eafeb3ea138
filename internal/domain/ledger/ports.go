package ledger

import (
	"context"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) error
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, error)
	CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) (int, error)
}

// QueryOptions filters and pages transaction queries
type QueryOptions struct {
	StartDate       *time.Time
	EndDate         *time.Time
	Category        *Category
	TransactionType *TransactionType
	VesselID        *string

	Limit  int
	Offset int
}

// DefaultQueryOptions returns the first page, newest first
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 50}
}
