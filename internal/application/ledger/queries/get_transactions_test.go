package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

// tradeOnce records a purchase, a cargo buy and a sale one second apart
func tradeOnce(t *testing.T) (*helpers.TestWorld, shared.PlayerID, string) {
	t.Helper()
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	w.Clock.Advance(time.Second)
	w.Send(t, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
	w.Clock.Advance(time.Second)
	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})
	w.Clock.Advance(time.Minute)
	w.Send(t, &commands.UnloadCargoCommand{VesselID: vesselID})
	return w, player, vesselID
}

func str(s string) *string { return &s }

func TestGetTransactions_NewestFirstWithBalances(t *testing.T) {
	w, player, vesselID := tradeOnce(t)

	resp := w.Send(t, &queries.GetTransactionsQuery{PlayerID: player.String()}).(*queries.GetTransactionsResponse)
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, 3, resp.Total)

	sale, load, purchase := resp.Transactions[0], resp.Transactions[1], resp.Transactions[2]

	assert.Equal(t, "SELL_CARGO", sale.Type)
	assert.Equal(t, "TRADING_REVENUE", sale.Category)
	assert.Equal(t, 632, sale.Amount)
	assert.Equal(t, 8860, sale.BalanceBefore)
	assert.Equal(t, 9492, sale.BalanceAfter)

	assert.Equal(t, "PURCHASE_CARGO", load.Type)
	assert.Equal(t, "TRADING_COSTS", load.Category)
	assert.Equal(t, -140, load.Amount)
	assert.Equal(t, vesselID, load.VesselID)
	assert.EqualValues(t, 14, load.Metadata["price_per_unit"])

	assert.Equal(t, "PURCHASE_VESSEL", purchase.Type)
	assert.Equal(t, "FLEET_INVESTMENTS", purchase.Category)
	assert.Equal(t, 10000, purchase.BalanceBefore)
}

func TestGetTransactions_Filters(t *testing.T) {
	w, player, vesselID := tradeOnce(t)
	since := helpers.WorldStart.Add(time.Second)

	cases := []struct {
		name  string
		query queries.GetTransactionsQuery
		types []string
		total int
	}{
		{"by category", queries.GetTransactionsQuery{Category: str("TRADING_COSTS")}, []string{"PURCHASE_CARGO"}, 1},
		{"by type", queries.GetTransactionsQuery{TransactionType: str("SELL_CARGO")}, []string{"SELL_CARGO"}, 1},
		{"by vessel", queries.GetTransactionsQuery{VesselID: &vesselID}, []string{"SELL_CARGO", "PURCHASE_CARGO", "PURCHASE_VESSEL"}, 3},
		{"since", queries.GetTransactionsQuery{StartDate: &since}, []string{"SELL_CARGO", "PURCHASE_CARGO"}, 2},
		{"page", queries.GetTransactionsQuery{Limit: 1, Offset: 1}, []string{"PURCHASE_CARGO"}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.query
			q.PlayerID = player.String()
			resp := w.Send(t, &q).(*queries.GetTransactionsResponse)

			var types []string
			for _, tx := range resp.Transactions {
				types = append(types, tx.Type)
			}
			assert.Equal(t, tc.types, types)
			assert.Equal(t, tc.total, resp.Total)
		})
	}
}

func TestGetTransactions_RejectsBadFilters(t *testing.T) {
	w := helpers.NewTestWorld(t)
	player := w.RegisterPlayer(t, "alice")
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &queries.GetTransactionsQuery{PlayerID: player.String(), Category: str("LOTTERY")})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = w.Mediator.Send(ctx, &queries.GetTransactionsQuery{PlayerID: player.String(), TransactionType: str("GIFT")})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = w.Mediator.Send(ctx, &queries.GetTransactionsQuery{PlayerID: "someone"})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
