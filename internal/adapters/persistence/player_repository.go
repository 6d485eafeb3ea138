package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// GormPlayerRepository implements PlayerRepository using GORM
type GormPlayerRepository struct {
	db    *gorm.DB
	retry *database.Retrier
}

// NewGormPlayerRepository creates a new GORM player repository.
// A nil retrier runs every statement once.
func NewGormPlayerRepository(db *gorm.DB, retry *database.Retrier) *GormPlayerRepository {
	if retry == nil {
		retry = database.NewNoopRetrier()
	}
	return &GormPlayerRepository{db: db, retry: retry}
}

// FindByID retrieves a player by ID
func (r *GormPlayerRepository) FindByID(ctx context.Context, id shared.PlayerID) (*player.Player, error) {
	return database.Retry(ctx, r.retry, "find_player", func(ctx context.Context) (*player.Player, error) {
		var model PlayerModel
		if err := r.db.WithContext(ctx).Where("id = ?", id.Value()).First(&model).Error; err != nil {
			return nil, mapNotFound(err, "player", id.Value())
		}
		return r.modelToPlayer(&model)
	})
}

// FindByUsername retrieves a player by username
func (r *GormPlayerRepository) FindByUsername(ctx context.Context, username string) (*player.Player, error) {
	return database.Retry(ctx, r.retry, "find_player", func(ctx context.Context) (*player.Player, error) {
		var model PlayerModel
		if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
			return nil, mapNotFound(err, "player", username)
		}
		return r.modelToPlayer(&model)
	})
}

// Create inserts a new player. A taken username is a conflict.
func (r *GormPlayerRepository) Create(ctx context.Context, p *player.Player) error {
	model := &PlayerModel{
		ID:        p.ID().Value(),
		Username:  p.Username(),
		Coins:     p.Coins(),
		CreatedAt: p.CreatedAt(),
	}
	return r.retry.Do(ctx, "create_player", func(ctx context.Context) error {
		err := r.db.WithContext(ctx).Create(model).Error
		if isUniqueViolation(err) {
			return shared.NewConflictError(shared.CodeDuplicateEntry, fmt.Sprintf("username %q is taken", p.Username()))
		}
		if err != nil {
			return fmt.Errorf("failed to create player: %w", err)
		}
		return nil
	})
}

// DebitCoins subtracts amount with a conditional update so two concurrent
// debits can never take the balance below zero
func (r *GormPlayerRepository) DebitCoins(ctx context.Context, id shared.PlayerID, amount int) (int, error) {
	if amount < 0 {
		return 0, shared.NewValidationError("amount", "debit amount cannot be negative")
	}
	return database.Retry(ctx, r.retry, "debit_coins", func(ctx context.Context) (int, error) {
		var balance int
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&PlayerModel{}).
				Where("id = ? AND coins >= ?", id.Value(), amount).
				Update("coins", gorm.Expr("coins - ?", amount))
			if result.Error != nil {
				return result.Error
			}

			current, err := r.balance(tx, id)
			if err != nil {
				return err
			}
			if result.RowsAffected == 0 {
				return shared.NewInsufficientFundsError(amount, current)
			}
			balance = current
			return nil
		})
		return balance, err
	})
}

// CreditCoins adds amount and returns the new balance
func (r *GormPlayerRepository) CreditCoins(ctx context.Context, id shared.PlayerID, amount int) (int, error) {
	if amount < 0 {
		return 0, shared.NewValidationError("amount", "credit amount cannot be negative")
	}
	return database.Retry(ctx, r.retry, "credit_coins", func(ctx context.Context) (int, error) {
		var balance int
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&PlayerModel{}).
				Where("id = ?", id.Value()).
				Update("coins", gorm.Expr("coins + ?", amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewNotFoundError("player", id.Value())
			}

			current, err := r.balance(tx, id)
			if err != nil {
				return err
			}
			balance = current
			return nil
		})
		return balance, err
	})
}

func (r *GormPlayerRepository) balance(tx *gorm.DB, id shared.PlayerID) (int, error) {
	var model PlayerModel
	if err := tx.Select("coins").Where("id = ?", id.Value()).First(&model).Error; err != nil {
		return 0, mapNotFound(err, "player", id.Value())
	}
	return model.Coins, nil
}

func (r *GormPlayerRepository) modelToPlayer(model *PlayerModel) (*player.Player, error) {
	id, err := shared.NewPlayerID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID in database: %w", err)
	}
	return player.ReconstructPlayer(id, model.Username, model.Coins, model.CreatedAt)
}
