package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func TestGetPlayer_ByIDOrUsername(t *testing.T) {
	w := helpers.NewTestWorld(t)
	id := w.RegisterPlayer(t, "alice")
	ctx := context.Background()

	byID := w.Send(t, &queries.GetPlayerQuery{PlayerID: id.String()}).(*queries.PlayerDTO)
	assert.Equal(t, "alice", byID.Username)

	byName := w.Send(t, &queries.GetPlayerQuery{Username: "alice"}).(*queries.PlayerDTO)
	assert.Equal(t, id.String(), byName.ID)

	_, err := w.Mediator.Send(ctx, &queries.GetPlayerQuery{})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = w.Mediator.Send(ctx, &queries.GetPlayerQuery{Username: "nobody"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetEarnings_StartsAtZero(t *testing.T) {
	w := helpers.NewTestWorld(t)
	id := w.RegisterPlayer(t, "alice")

	earnings := w.Send(t, &queries.GetEarningsQuery{PlayerID: id.String()}).(*queries.EarningsDTO)
	assert.Zero(t, earnings.Total)
	assert.Zero(t, earnings.Weekly)
}

func TestGetRating_TotalAndWeekly(t *testing.T) {
	w := helpers.NewTestWorld(t)
	alice := w.RegisterPlayer(t, "alice")
	bob := w.RegisterPlayer(t, "bob")
	w.RegisterPlayer(t, "carol")
	ctx := context.Background()

	lastWeek := helpers.WorldStart.AddDate(0, 0, -7)
	_, err := w.Repos.Earnings.Add(ctx, alice, 300, lastWeek)
	require.NoError(t, err)
	_, err = w.Repos.Earnings.Add(ctx, bob, 200, helpers.WorldStart)
	require.NoError(t, err)

	total := w.Send(t, &queries.GetRatingQuery{Type: "total"}).(*queries.GetRatingResponse)
	require.Len(t, total.Entries, 2, "players without earnings are not ranked")
	assert.Equal(t, "alice", total.Entries[0].Username)
	assert.Equal(t, 1, total.Entries[0].Rank)
	assert.Equal(t, 300, total.Entries[0].Earnings)
	assert.Equal(t, "bob", total.Entries[1].Username)

	weekly := w.Send(t, &queries.GetRatingQuery{Type: "weekly"}).(*queries.GetRatingResponse)
	require.Len(t, weekly.Entries, 1)
	assert.Equal(t, "bob", weekly.Entries[0].Username)
	assert.Equal(t, 200, weekly.Entries[0].Earnings)

	limited := w.Send(t, &queries.GetRatingQuery{Type: "total", Limit: 1}).(*queries.GetRatingResponse)
	assert.Len(t, limited.Entries, 1)

	_, err = w.Mediator.Send(ctx, &queries.GetRatingQuery{Type: "monthly"})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
