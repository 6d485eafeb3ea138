package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
)

// GormEarningsRepository implements EarningsRepository using GORM
type GormEarningsRepository struct {
	db    *gorm.DB
	retry *database.Retrier
}

// NewGormEarningsRepository creates a new GORM earnings repository
func NewGormEarningsRepository(db *gorm.DB, retry *database.Retrier) *GormEarningsRepository {
	if retry == nil {
		retry = database.NewNoopRetrier()
	}
	return &GormEarningsRepository{db: db, retry: retry}
}

// Find returns the stored earnings row. The weekly column is as stored;
// callers read it through WeeklyAt.
func (r *GormEarningsRepository) Find(ctx context.Context, id shared.PlayerID) (*player.Earnings, error) {
	return database.Retry(ctx, r.retry, "find_earnings", func(ctx context.Context) (*player.Earnings, error) {
		var model EarningsModel
		if err := r.db.WithContext(ctx).Where("player_id = ?", id.Value()).First(&model).Error; err != nil {
			return nil, mapNotFound(err, "earnings", id.Value())
		}
		return modelToEarnings(&model), nil
	})
}

// Add books amount with a single upsert. The weekly column restarts from
// amount when the stored week is older than the week of now.
func (r *GormEarningsRepository) Add(ctx context.Context, id shared.PlayerID, amount int, now time.Time) (*player.Earnings, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("amount", "earnings must be positive")
	}
	now = now.UTC()
	week := player.WeekStart(now)

	return database.Retry(ctx, r.retry, "add_earnings", func(ctx context.Context) (*player.Earnings, error) {
		var out *player.Earnings
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			row := &EarningsModel{PlayerID: id.Value(), Total: amount, Weekly: amount, WeekStart: week, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "player_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total":      gorm.Expr("earnings.total + ?", amount),
					"weekly":     gorm.Expr("CASE WHEN earnings.week_start < ? THEN ? ELSE earnings.weekly + ? END", week, amount, amount),
					"week_start": gorm.Expr("CASE WHEN earnings.week_start < ? THEN ? ELSE earnings.week_start END", week, week),
					"updated_at": now,
				}),
			}).Create(row).Error
			if err != nil {
				return fmt.Errorf("failed to add earnings: %w", err)
			}

			var model EarningsModel
			if err := tx.Where("player_id = ?", id.Value()).First(&model).Error; err != nil {
				return err
			}
			out = modelToEarnings(&model)
			return nil
		})
		return out, err
	})
}

// Top ranks players by total or current-week earnings. Players with nothing
// earned in the period are left out. Ties rank by username.
func (r *GormEarningsRepository) Top(ctx context.Context, period player.RatingPeriod, limit int, now time.Time) ([]player.RatingEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	type row struct {
		PlayerID string
		Username string
		Amount   int
	}

	return database.Retry(ctx, r.retry, "top_earnings", func(ctx context.Context) ([]player.RatingEntry, error) {
		q := r.db.WithContext(ctx).
			Table("earnings").
			Joins("JOIN players ON players.id = earnings.player_id")

		switch period {
		case player.RatingWeekly:
			q = q.Select("earnings.player_id AS player_id, players.username AS username, earnings.weekly AS amount").
				Where("earnings.week_start = ? AND earnings.weekly > 0", player.WeekStart(now)).
				Order("earnings.weekly DESC")
		default:
			q = q.Select("earnings.player_id AS player_id, players.username AS username, earnings.total AS amount").
				Where("earnings.total > 0").
				Order("earnings.total DESC")
		}

		var rows []row
		if err := q.Order("players.username ASC").Limit(limit).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to rank earnings: %w", err)
		}

		entries := make([]player.RatingEntry, 0, len(rows))
		for i, rw := range rows {
			id, err := shared.NewPlayerID(rw.PlayerID)
			if err != nil {
				return nil, fmt.Errorf("invalid player ID in database: %w", err)
			}
			entries = append(entries, player.RatingEntry{Rank: i + 1, PlayerID: id, Username: rw.Username, Amount: rw.Amount})
		}
		return entries, nil
	})
}

func modelToEarnings(model *EarningsModel) *player.Earnings {
	return &player.Earnings{
		PlayerID:  shared.MustNewPlayerID(model.PlayerID),
		Total:     model.Total,
		Weekly:    model.Weekly,
		WeekStart: model.WeekStart.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}
}
