package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/domain/ledger"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db    *gorm.DB
	retry *database.Retrier
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB, retry *database.Retrier) *GormTransactionRepository {
	if retry == nil {
		retry = database.NewNoopRetrier()
	}
	return &GormTransactionRepository{db: db, retry: retry}
}

// Create persists a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	model, err := transactionToModel(transaction)
	if err != nil {
		return fmt.Errorf("failed to convert transaction to model: %w", err)
	}

	return r.retry.Do(ctx, "create_transaction", func(ctx context.Context) error {
		err := r.db.WithContext(ctx).Create(model).Error
		// A retried insert that had already landed is not a failure
		if isUniqueViolation(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
}

// FindByPlayer retrieves transactions for a player, newest first
func (r *GormTransactionRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	return database.Retry(ctx, r.retry, "list_transactions", func(ctx context.Context) ([]*ledger.Transaction, error) {
		query := applyFilters(r.db.WithContext(ctx).Where("player_id = ?", playerID.Value()), opts).
			Order("timestamp DESC, id DESC")

		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}

		var models []TransactionModel
		if err := query.Find(&models).Error; err != nil {
			return nil, fmt.Errorf("failed to find transactions: %w", err)
		}

		transactions := make([]*ledger.Transaction, len(models))
		for i := range models {
			tx, err := modelToTransaction(&models[i])
			if err != nil {
				return nil, fmt.Errorf("failed to convert transaction model: %w", err)
			}
			transactions[i] = tx
		}
		return transactions, nil
	})
}

// CountByPlayer returns the count of transactions matching the filters
func (r *GormTransactionRepository) CountByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) (int, error) {
	return database.Retry(ctx, r.retry, "count_transactions", func(ctx context.Context) (int, error) {
		query := applyFilters(r.db.WithContext(ctx).Model(&TransactionModel{}).Where("player_id = ?", playerID.Value()), opts)

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to count transactions: %w", err)
		}
		return int(count), nil
	})
}

func applyFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.StartDate != nil {
		query = query.Where("timestamp >= ?", opts.StartDate.UTC())
	}
	if opts.EndDate != nil {
		query = query.Where("timestamp <= ?", opts.EndDate.UTC())
	}
	if opts.Category != nil {
		query = query.Where("category = ?", opts.Category.String())
	}
	if opts.TransactionType != nil {
		query = query.Where("transaction_type = ?", opts.TransactionType.String())
	}
	if opts.VesselID != nil {
		query = query.Where("vessel_id = ?", *opts.VesselID)
	}
	return query
}

func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.ParseTransactionID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID in database: %w", err)
	}
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID in database: %w", err)
	}
	transactionType, err := ledger.ParseTransactionType(model.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in database: %w", err)
	}
	category, err := ledger.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	var metadata map[string]interface{}
	if model.Metadata != "" {
		if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
			// Unreadable metadata is dropped rather than hiding the row
			metadata = nil
		}
	}

	return ledger.ReconstructTransaction(
		id,
		playerID,
		model.Timestamp.UTC(),
		transactionType,
		category,
		model.Amount,
		model.BalanceBefore,
		model.BalanceAfter,
		model.Description,
		metadata,
		model.VesselID,
	), nil
}

func transactionToModel(tx *ledger.Transaction) (*TransactionModel, error) {
	var metadataJSON string
	if tx.Metadata() != nil {
		bytes, err := json.Marshal(tx.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = string(bytes)
	}

	return &TransactionModel{
		ID:              tx.ID().String(),
		PlayerID:        tx.PlayerID().Value(),
		Timestamp:       tx.Timestamp().UTC(),
		TransactionType: tx.Type().String(),
		Category:        tx.Category().String(),
		Amount:          tx.Amount(),
		BalanceBefore:   tx.BalanceBefore(),
		BalanceAfter:    tx.BalanceAfter(),
		Description:     tx.Description(),
		Metadata:        metadataJSON,
		VesselID:        tx.VesselID(),
	}, nil
}
