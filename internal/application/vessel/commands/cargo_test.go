package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

// loadedTanker buys a tanker in Vladivostok and loads 10 oil at 14 per unit
func loadedTanker(t *testing.T, w *helpers.TestWorld) (shared.PlayerID, string) {
	t.Helper()
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	w.Send(t, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
	return player, vesselID
}

func sail(t *testing.T, w *helpers.TestWorld, vesselID, port string) {
	t.Helper()
	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, port)})
	w.Clock.Advance(31 * time.Second)
}

func TestLoadCargo_DebitsBuyerAndPortStock(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	resp := w.Send(t, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10}).(*commands.LoadCargoResponse)

	assert.Equal(t, 14, resp.PricePerUnit)
	assert.Equal(t, 140, resp.TotalCost)
	assert.Equal(t, 8860, resp.CoinsRemaining)
	assert.Equal(t, 140, resp.PortStock)
	assert.Equal(t, 15, resp.PortPrice, "lower stock raises the price")

	stock := w.Port(t, "Vladivostok").Stock(shared.CommodityOil)
	assert.Equal(t, 140, stock.Amount)
	assert.Equal(t, 15, stock.Price)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	require.NotNil(t, v.Cargo())
	assert.Equal(t, shared.CommodityOil, v.Cargo().Commodity)
	assert.Equal(t, 10, v.Cargo().Amount)
	assert.Equal(t, w.PortID(t, "Vladivostok"), v.Cargo().PurchasePortID)
	assert.Equal(t, 14, v.Cargo().PurchasePricePerUnit)

	assert.Equal(t, -140, w.LedgerTotals(t, player)["PURCHASE_CARGO"])
}

func TestLoadCargo_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	w.SetStock(t, "Vladivostok", shared.CommodityOil, 50)
	ctx := context.Background()

	cases := []struct {
		name      string
		commodity string
		amount    int
		code      string
	}{
		{"zero amount", "oil", 0, shared.CodeInvalidAmount},
		{"above hold size", "oil", 101, shared.CodeInvalidAmount},
		{"wrong commodity for a tanker", "materials", 10, shared.CodeCommodityMismatch},
		{"more than the port holds", "oil", 100, shared.CodeInsufficientStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := w.Mediator.Send(ctx, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: tc.commodity, Amount: tc.amount})
			assert.Equal(t, tc.code, shared.CodeOf(err))
		})
	}

	_, err := w.Mediator.Send(ctx, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "gold", Amount: 1})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	assert.Equal(t, 9000, w.Coins(t, player), "rejected loads never charge")
	assert.Equal(t, 50, w.Port(t, "Vladivostok").Stock(shared.CommodityOil).Amount)
}

func TestLoadCargo_AlreadyLoaded(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	_, vesselID := loadedTanker(t, w)

	_, err := w.Mediator.Send(context.Background(), &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 5})
	assert.Equal(t, shared.CodeCargoAlreadyLoaded, shared.CodeOf(err))
}

func TestLoadCargo_OnlyProducedCommodities(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	sail(t, w, vesselID, "Novorossiysk")
	w.SetStock(t, "Novorossiysk", shared.CommodityOil, 80)

	_, err := w.Mediator.Send(context.Background(), &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
	assert.Equal(t, shared.CodeCommodityNotProduced, shared.CodeOf(err))
}

func TestLoadCargo_InsufficientFundsLeavesStockUntouched(t *testing.T) {
	w := helpers.NewTestWorld(t)
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	require.Equal(t, 0, w.Coins(t, player))

	_, err := w.Mediator.Send(context.Background(), &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
	assert.Equal(t, shared.CodeInsufficientFunds, shared.CodeOf(err))

	assert.Equal(t, 150, w.Port(t, "Vladivostok").Stock(shared.CommodityOil).Amount)
	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Nil(t, v.Cargo())
}

func TestLoadCargo_CompensatesFailedSteps(t *testing.T) {
	var vessels *helpers.FailingVesselRepository
	var ports *helpers.FailingPortRepository
	w := helpers.NewTestWorld(t,
		helpers.WithConfig(helpers.RoomyConfig),
		helpers.WithRepositories(func(repos *setup.Repositories) {
			vessels = helpers.NewFailingVesselRepository(repos.Vessels)
			ports = helpers.NewFailingPortRepository(repos.Ports)
			repos.Vessels = vessels
			repos.Ports = ports
		}))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	ctx := context.Background()

	t.Run("stock withdrawal fails", func(t *testing.T) {
		ports.FailAdjust(errors.New("stock row locked"), 0)
		defer ports.FailAdjust(nil, 0)

		_, err := w.Mediator.Send(ctx, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
		require.Error(t, err)
		assert.Equal(t, 9000, w.Coins(t, player))
		assert.Equal(t, 150, w.Port(t, "Vladivostok").Stock(shared.CommodityOil).Amount)
	})

	t.Run("cargo save fails", func(t *testing.T) {
		vessels.FailSaves(errors.New("disk full"))
		defer vessels.FailSaves(nil)

		_, err := w.Mediator.Send(ctx, &commands.LoadCargoCommand{VesselID: vesselID, Commodity: "oil", Amount: 10})
		require.Error(t, err)
		assert.Equal(t, 9000, w.Coins(t, player))

		stock := w.Port(t, "Vladivostok").Stock(shared.CommodityOil)
		assert.Equal(t, 150, stock.Amount)
		assert.Equal(t, 14, stock.Price)
	})

	totals := w.LedgerTotals(t, player)
	assert.Equal(t, -280, totals["PURCHASE_CARGO"])
	assert.Equal(t, 280, totals["REFUND"])
}

func TestUnloadCargo_SettlesTheTrade(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player, vesselID := loadedTanker(t, w)
	sail(t, w, vesselID, "Novorossiysk")

	resp := w.Send(t, &commands.UnloadCargoCommand{VesselID: vesselID}).(*commands.UnloadCargoResponse)

	// Novorossiysk had no oil, so the ceiling price applies:
	// (40 + 3822.1nm * 0.01) * 10 = 782
	assert.Equal(t, 40, resp.SalePricePerUnit)
	assert.InDelta(t, 3822.1, resp.Distance, 0.01)
	assert.Equal(t, 782, resp.SaleValue)
	assert.Equal(t, 140, resp.PurchaseCost)
	assert.Equal(t, 642, resp.GrossProfit)
	assert.Equal(t, 96, resp.Fees)
	assert.Equal(t, 54, resp.Tax)
	assert.Equal(t, 492, resp.NetProfit)
	assert.Equal(t, 632, resp.Reward)
	assert.Equal(t, 8860+632, resp.Coins)
	assert.Nil(t, resp.Generation)

	assert.Equal(t, 10, w.Port(t, "Novorossiysk").Stock(shared.CommodityOil).Amount)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Nil(t, v.Cargo())
	assert.Equal(t, 492, v.Stats().TotalProfit)

	earnings := w.Send(t, &playerQueries.GetEarningsQuery{PlayerID: player.String()}).(*playerQueries.EarningsDTO)
	assert.Equal(t, 492, earnings.Total)
	assert.Equal(t, 492, earnings.Weekly)

	assert.Equal(t, 632, w.LedgerTotals(t, player)["SELL_CARGO"])
}

func TestUnloadCargo_TriggersGeneration(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	_, vesselID := loadedTanker(t, w)
	sail(t, w, vesselID, "Novorossiysk")
	w.SetStock(t, "Novorossiysk", shared.CommodityMaterials, 4)

	resp := w.Send(t, &commands.UnloadCargoCommand{VesselID: vesselID}).(*commands.UnloadCargoResponse)

	require.NotNil(t, resp.Generation)
	assert.Equal(t, "provisions", resp.Generation.Generated)
	assert.Equal(t, 12, resp.Generation.Amount)
	assert.Equal(t, map[string]int{"oil": 4, "materials": 4}, resp.Generation.Used)

	port := w.Port(t, "Novorossiysk")
	assert.Equal(t, 6, port.Stock(shared.CommodityOil).Amount)
	assert.Equal(t, 0, port.Stock(shared.CommodityMaterials).Amount)
	assert.Equal(t, 162, port.Stock(shared.CommodityProvisions).Amount)
}

func TestUnloadCargo_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player, vesselID := loadedTanker(t, w)
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
	assert.Equal(t, shared.CodeSamePortSale, shared.CodeOf(err))

	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})
	_, err = w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
	assert.Equal(t, shared.CodeVesselTraveling, shared.CodeOf(err))

	empty := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID
	_, err = w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: empty})
	assert.Equal(t, shared.CodeCargoEmpty, shared.CodeOf(err))
}

func TestUnloadCargo_ClearFailureAfterPayoutIsInvariantViolation(t *testing.T) {
	var vessels *helpers.FailingVesselRepository
	w := helpers.NewTestWorld(t,
		helpers.WithConfig(helpers.RoomyConfig),
		helpers.WithRepositories(func(repos *setup.Repositories) {
			vessels = helpers.NewFailingVesselRepository(repos.Vessels)
			repos.Vessels = vessels
		}))
	player, vesselID := loadedTanker(t, w)
	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})

	// Arrival is persisted by the sweep so only the clearing save fails
	w.Clock.Advance(31 * time.Second)
	w.Send(t, &commands.SweepDueTravelsCommand{})
	vessels.FailSaves(errors.New("disk full"))

	_, err := w.Mediator.Send(context.Background(), &commands.UnloadCargoCommand{VesselID: vesselID})
	assert.Equal(t, shared.CodeInvariantViolation, shared.CodeOf(err))
	assert.Equal(t, 8860+632, w.Coins(t, player), "payout is not reversed")
}

func TestUnloadCargo_FailedPayoutWithdrawsTheDeposit(t *testing.T) {
	var players *helpers.FailingPlayerRepository
	var ports *helpers.FailingPortRepository
	newWorld := func(t *testing.T) *helpers.TestWorld {
		return helpers.NewTestWorld(t,
			helpers.WithConfig(helpers.RoomyConfig),
			helpers.WithRepositories(func(repos *setup.Repositories) {
				players = helpers.NewFailingPlayerRepository(repos.Players)
				ports = helpers.NewFailingPortRepository(repos.Ports)
				repos.Players = players
				repos.Ports = ports
			}))
	}
	storeDown := shared.NewTransientError(errors.New("connection reset"), 3)
	ctx := context.Background()

	t.Run("retry deposits once", func(t *testing.T) {
		w := newWorld(t)
		player, vesselID := loadedTanker(t, w)
		sail(t, w, vesselID, "Novorossiysk")

		players.FailCredits(storeDown)
		_, err := w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
		assert.Equal(t, shared.CodeStoreUnavailable, shared.CodeOf(err))
		assert.Equal(t, 0, w.Port(t, "Novorossiysk").Stock(shared.CommodityOil).Amount)
		assert.Equal(t, 8860, w.Coins(t, player))

		v, err := w.Repos.Vessels.FindByID(ctx, vesselID)
		require.NoError(t, err)
		require.NotNil(t, v.Cargo(), "cargo stays aboard for the retry")

		players.FailCredits(nil)
		resp := w.Send(t, &commands.UnloadCargoCommand{VesselID: vesselID}).(*commands.UnloadCargoResponse)
		assert.Equal(t, 632, resp.Reward)
		assert.Equal(t, 10, w.Port(t, "Novorossiysk").Stock(shared.CommodityOil).Amount)
		assert.Equal(t, 8860+632, w.Coins(t, player))
	})

	t.Run("generation already consumed the deposit", func(t *testing.T) {
		w := newWorld(t)
		_, vesselID := loadedTanker(t, w)
		sail(t, w, vesselID, "Novorossiysk")
		w.SetStock(t, "Novorossiysk", shared.CommodityMaterials, 4)

		players.FailCredits(storeDown)
		_, err := w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
		assert.Equal(t, shared.CodeInvariantViolation, shared.CodeOf(err))
	})

	t.Run("withdrawal fails", func(t *testing.T) {
		w := newWorld(t)
		_, vesselID := loadedTanker(t, w)
		sail(t, w, vesselID, "Novorossiysk")

		players.FailCredits(storeDown)
		ports.FailAdjust(errors.New("stock row locked"), 1)
		_, err := w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
		assert.Equal(t, shared.CodeInvariantViolation, shared.CodeOf(err))
		assert.Equal(t, 10, w.Port(t, "Novorossiysk").Stock(shared.CommodityOil).Amount)
	})
}
