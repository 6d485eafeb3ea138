package player

import (
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// RatingPeriod selects which earnings column a leaderboard ranks by
type RatingPeriod string

const (
	RatingTotal  RatingPeriod = "total"
	RatingWeekly RatingPeriod = "weekly"
)

// ParseRatingPeriod defaults to total for an empty string
func ParseRatingPeriod(s string) (RatingPeriod, error) {
	switch RatingPeriod(s) {
	case "", RatingTotal:
		return RatingTotal, nil
	case RatingWeekly:
		return RatingWeekly, nil
	default:
		return "", shared.NewValidationError("type", fmt.Sprintf("rating type must be total or weekly, got %q", s))
	}
}

// WeekStart returns Monday 00:00 UTC of the week containing t
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// Earnings tracks realised net profit per player
type Earnings struct {
	PlayerID  shared.PlayerID
	Total     int
	Weekly    int
	WeekStart time.Time
	UpdatedAt time.Time
}

// NewEarnings starts an empty record in the current week
func NewEarnings(playerID shared.PlayerID, now time.Time) *Earnings {
	return &Earnings{PlayerID: playerID, WeekStart: WeekStart(now), UpdatedAt: now}
}

// Rollover zeroes the weekly column when now falls in a later week
func (e *Earnings) Rollover(now time.Time) {
	current := WeekStart(now)
	if current.After(e.WeekStart) {
		e.Weekly = 0
		e.WeekStart = current
	}
}

// Add books a positive amount into both columns
func (e *Earnings) Add(amount int, now time.Time) error {
	if amount <= 0 {
		return shared.NewValidationError("amount", "earnings must be positive")
	}
	e.Rollover(now)
	e.Total += amount
	e.Weekly += amount
	e.UpdatedAt = now
	return nil
}

// WeeklyAt is the weekly figure as seen at now
func (e *Earnings) WeeklyAt(now time.Time) int {
	if WeekStart(now).After(e.WeekStart) {
		return 0
	}
	return e.Weekly
}

// RatingEntry is one leaderboard row
type RatingEntry struct {
	Rank     int
	PlayerID shared.PlayerID
	Username string
	Amount   int
}
