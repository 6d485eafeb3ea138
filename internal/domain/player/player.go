package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Player is a registered account holding coins
type Player struct {
	id        shared.PlayerID
	username  string
	coins     int
	createdAt time.Time
}

// NewPlayer registers a new player with its starting coins
func NewPlayer(username string, initialCoins int, now time.Time) (*Player, error) {
	return ReconstructPlayer(shared.GeneratePlayerID(), username, initialCoins, now)
}

// ReconstructPlayer rebuilds a player from persistence
func ReconstructPlayer(id shared.PlayerID, username string, coins int, createdAt time.Time) (*Player, error) {
	username = strings.TrimSpace(username)
	if id.IsZero() {
		return nil, shared.NewValidationError("id", "player id cannot be empty")
	}
	if username == "" {
		return nil, shared.NewValidationError("username", "username cannot be empty")
	}
	if coins < 0 {
		return nil, shared.NewValidationError("coins", "coins cannot be negative")
	}
	return &Player{id: id, username: username, coins: coins, createdAt: createdAt}, nil
}

func (p *Player) ID() shared.PlayerID {
	return p.id
}

func (p *Player) Username() string {
	return p.username
}

func (p *Player) Coins() int {
	return p.coins
}

func (p *Player) CreatedAt() time.Time {
	return p.createdAt
}

// CanAfford reports whether the cached balance covers cost. The store's
// conditional debit is authoritative; this is only a fast pre-check.
func (p *Player) CanAfford(cost int) bool {
	return p.coins >= cost
}

func (p *Player) String() string {
	return fmt.Sprintf("Player(%s, %s, coins=%d)", p.username, p.id, p.coins)
}
