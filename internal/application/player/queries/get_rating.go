package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/player"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

const (
	defaultRatingLimit = 10
	maxRatingLimit     = 100
)

// GetRatingQuery reads the leaderboard
type GetRatingQuery struct {
	Type  string // total | weekly
	Limit int
}

// RatingEntryDTO is one leaderboard row
type RatingEntryDTO struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Earnings int    `json:"earnings"`
}

// GetRatingResponse holds the leaderboard
type GetRatingResponse struct {
	Type    string            `json:"type"`
	Entries []*RatingEntryDTO `json:"rating"`
}

// GetRatingHandler handles the GetRating query
type GetRatingHandler struct {
	earningsRepo player.EarningsRepository
	clock        shared.Clock
}

// NewGetRatingHandler creates a new GetRatingHandler
func NewGetRatingHandler(earningsRepo player.EarningsRepository, clock shared.Clock) *GetRatingHandler {
	return &GetRatingHandler{earningsRepo: earningsRepo, clock: shared.ClockOrDefault(clock)}
}

// Handle executes the GetRating query
func (h *GetRatingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetRatingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRatingQuery")
	}

	period, err := player.ParseRatingPeriod(query.Type)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultRatingLimit
	}
	if limit > maxRatingLimit {
		limit = maxRatingLimit
	}

	entries, err := h.earningsRepo.Top(ctx, period, limit, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	dtos := make([]*RatingEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = &RatingEntryDTO{
			Rank:     e.Rank,
			PlayerID: e.PlayerID.String(),
			Username: e.Username,
			Earnings: e.Amount,
		}
	}
	return &GetRatingResponse{Type: string(period), Entries: dtos}, nil
}
