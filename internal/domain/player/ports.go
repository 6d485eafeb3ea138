package player

import (
	"context"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// PlayerRepository defines player persistence operations
type PlayerRepository interface {
	FindByID(ctx context.Context, id shared.PlayerID) (*Player, error)
	FindByUsername(ctx context.Context, username string) (*Player, error)
	Create(ctx context.Context, p *Player) error

	// DebitCoins subtracts amount only if the balance covers it and returns
	// the new balance. Fails with an InsufficientResourceError otherwise.
	DebitCoins(ctx context.Context, id shared.PlayerID, amount int) (int, error)

	// CreditCoins adds amount and returns the new balance
	CreditCoins(ctx context.Context, id shared.PlayerID, amount int) (int, error)
}

// EarningsRepository persists earnings and serves the leaderboard
type EarningsRepository interface {
	Find(ctx context.Context, id shared.PlayerID) (*Earnings, error)
	Add(ctx context.Context, id shared.PlayerID, amount int, now time.Time) (*Earnings, error)
	Top(ctx context.Context, period RatingPeriod, limit int, now time.Time) ([]RatingEntry, error)
}
