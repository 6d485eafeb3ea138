package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// RegisterPlayerCommand creates a player with the configured starting coins
type RegisterPlayerCommand struct {
	Username string
}

// RegisterPlayerResponse represents the result of registering a player
type RegisterPlayerResponse struct {
	PlayerID  string    `json:"playerId"`
	Username  string    `json:"username"`
	Coins     int       `json:"coins"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterPlayerHandler handles the RegisterPlayer command
type RegisterPlayerHandler struct {
	playerRepo   player.PlayerRepository
	initialCoins int
	clock        shared.Clock
}

// NewRegisterPlayerHandler creates a new RegisterPlayerHandler
func NewRegisterPlayerHandler(playerRepo player.PlayerRepository, initialCoins int, clock shared.Clock) *RegisterPlayerHandler {
	return &RegisterPlayerHandler{
		playerRepo:   playerRepo,
		initialCoins: initialCoins,
		clock:        shared.ClockOrDefault(clock),
	}
}

// Handle executes the RegisterPlayer command
func (h *RegisterPlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RegisterPlayerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RegisterPlayerCommand")
	}

	p, err := player.NewPlayer(cmd.Username, h.initialCoins, h.clock.Now())
	if err != nil {
		return nil, err
	}

	existing, err := h.playerRepo.FindByUsername(ctx, p.Username())
	if err != nil && !shared.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, shared.NewConflictError(shared.CodeDuplicateEntry,
			fmt.Sprintf("username %q is already taken", p.Username()))
	}

	if err := h.playerRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Player registered", map[string]interface{}{
		"player_id": p.ID().String(),
		"username":  p.Username(),
	})

	return &RegisterPlayerResponse{
		PlayerID:  p.ID().String(),
		Username:  p.Username(),
		Coins:     p.Coins(),
		CreatedAt: p.CreatedAt(),
	}, nil
}
