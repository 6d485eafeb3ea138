package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// GetEarningsQuery reads a player's earnings
type GetEarningsQuery struct {
	PlayerID string
}

// EarningsDTO is the earnings view. Weekly reads zero once the stored week
// is over even before the next write resets it.
type EarningsDTO struct {
	PlayerID  string    `json:"playerId"`
	Total     int       `json:"totalEarnings"`
	Weekly    int       `json:"weeklyEarnings"`
	WeekStart time.Time `json:"weekStartDate"`
}

// GetEarningsHandler handles the GetEarnings query
type GetEarningsHandler struct {
	earningsRepo player.EarningsRepository
	clock        shared.Clock
}

// NewGetEarningsHandler creates a new GetEarningsHandler
func NewGetEarningsHandler(earningsRepo player.EarningsRepository, clock shared.Clock) *GetEarningsHandler {
	return &GetEarningsHandler{earningsRepo: earningsRepo, clock: shared.ClockOrDefault(clock)}
}

// Handle executes the GetEarnings query
func (h *GetEarningsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetEarningsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetEarningsQuery")
	}

	id, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, shared.NewValidationError("playerId", err.Error())
	}

	now := h.clock.Now()
	e, err := h.earningsRepo.Find(ctx, id)
	if shared.IsNotFound(err) {
		e = player.NewEarnings(id, now)
	} else if err != nil {
		return nil, err
	}

	return &EarningsDTO{
		PlayerID:  id.String(),
		Total:     e.Total,
		Weekly:    e.WeeklyAt(now),
		WeekStart: player.WeekStart(now),
	}, nil
}
