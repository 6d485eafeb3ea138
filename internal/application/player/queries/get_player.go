package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// GetPlayerQuery finds a player by id or username
type GetPlayerQuery struct {
	PlayerID string // optional
	Username string // optional
}

// PlayerDTO is the client view of a player
type PlayerDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Coins     int       `json:"coins"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPlayerHandler handles the GetPlayer query
type GetPlayerHandler struct {
	playerRepo player.PlayerRepository
}

// NewGetPlayerHandler creates a new GetPlayerHandler
func NewGetPlayerHandler(playerRepo player.PlayerRepository) *GetPlayerHandler {
	return &GetPlayerHandler{playerRepo: playerRepo}
}

// Handle executes the GetPlayer query
func (h *GetPlayerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetPlayerQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPlayerQuery")
	}

	var (
		p   *player.Player
		err error
	)
	switch {
	case query.PlayerID != "":
		id, parseErr := shared.NewPlayerID(query.PlayerID)
		if parseErr != nil {
			return nil, shared.NewValidationError("playerId", parseErr.Error())
		}
		p, err = h.playerRepo.FindByID(ctx, id)
	case query.Username != "":
		p, err = h.playerRepo.FindByUsername(ctx, query.Username)
	default:
		return nil, shared.NewValidationError("playerId", "either player id or username must be provided")
	}
	if err != nil {
		return nil, err
	}

	return &PlayerDTO{
		ID:        p.ID().String(),
		Username:  p.Username(),
		Coins:     p.Coins(),
		CreatedAt: p.CreatedAt(),
	}, nil
}
