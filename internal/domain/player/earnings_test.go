package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"month boundary", time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in))
		})
	}
}

func TestEarnings_WeeklyResetKeepsTotal(t *testing.T) {
	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := NewEarnings(shared.GeneratePlayerID(), monday)

	require.NoError(t, e.Add(100, monday))
	require.NoError(t, e.Add(50, monday.Add(48*time.Hour)))
	assert.Equal(t, 150, e.Weekly)

	nextWeek := monday.Add(7 * 24 * time.Hour)
	assert.Equal(t, 0, e.WeeklyAt(nextWeek))

	require.NoError(t, e.Add(30, nextWeek))
	assert.Equal(t, 30, e.Weekly)
	assert.Equal(t, 180, e.Total)
	assert.Equal(t, WeekStart(nextWeek), e.WeekStart)
}

func TestEarnings_RejectsNonPositive(t *testing.T) {
	e := NewEarnings(shared.GeneratePlayerID(), time.Now())
	assert.Error(t, e.Add(0, time.Now()))
}

func TestParseRatingPeriod(t *testing.T) {
	p, err := ParseRatingPeriod("")
	require.NoError(t, err)
	assert.Equal(t, RatingTotal, p)

	p, err = ParseRatingPeriod("weekly")
	require.NoError(t, err)
	assert.Equal(t, RatingWeekly, p)

	_, err = ParseRatingPeriod("daily")
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer("  captain  ", 1000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "captain", p.Username())
	assert.True(t, p.CanAfford(1000))
	assert.False(t, p.CanAfford(1001))

	_, err = NewPlayer("", 10, time.Now())
	assert.Error(t, err)
}
