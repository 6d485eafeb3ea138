package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func lowTank(cfg *config.Config) {
	helpers.RoomyConfig(cfg)
	cfg.Game.Initial.Fuel = 40
}

func damagedHull(cfg *config.Config) {
	helpers.RoomyConfig(cfg)
	cfg.Game.Initial.Health = 60
}

func intPtr(v int) *int { return &v }

func TestRefuelVessel_ChargesPortPrice(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(lowTank))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	resp := w.Send(t, &commands.RefuelVesselCommand{VesselID: vesselID, Amount: 100}).(*commands.RefuelVesselResponse)

	assert.Equal(t, 100, resp.Amount)
	assert.Equal(t, 14, resp.PricePerUnit)
	assert.Equal(t, 1400, resp.Cost)
	assert.Equal(t, 140, resp.Fuel)
	assert.Equal(t, 9000-1400, resp.CoinsRemaining)
	assert.Equal(t, 50, w.Port(t, "Vladivostok").Stock(shared.CommodityOil).Amount)
	assert.Equal(t, -1400, w.LedgerTotals(t, player)["REFUEL"])
}

func TestRefuelVessel_CapsAtTankCapacity(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(func(cfg *config.Config) {
		helpers.RoomyConfig(cfg)
		cfg.Game.Initial.MaxFuel = 100
		cfg.Game.Initial.Fuel = 90
	}))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	resp := w.Send(t, &commands.RefuelVesselCommand{VesselID: vesselID, Amount: 50}).(*commands.RefuelVesselResponse)

	assert.Equal(t, 50, resp.Requested)
	assert.Equal(t, 10, resp.Amount)
	assert.Equal(t, 100, resp.Fuel)
	assert.Equal(t, 140, resp.Cost)
}

func TestRefuelVessel_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(lowTank))
	player := w.RegisterPlayer(t, "alice")
	tanker := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	cargo := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &commands.RefuelVesselCommand{VesselID: tanker, Amount: 0})
	assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))

	// 960 missing but the port only holds 150
	_, err = w.Mediator.Send(ctx, &commands.RefuelVesselCommand{VesselID: tanker, Amount: 2000})
	assert.Equal(t, shared.CodeInsufficientStock, shared.CodeOf(err))

	_, err = w.Mediator.Send(ctx, &commands.RefuelVesselCommand{VesselID: cargo, Amount: 10})
	assert.Equal(t, shared.CodeRefuelNotAvailable, shared.CodeOf(err))

	full := helpers.NewTestWorld(t)
	owner := full.RegisterPlayer(t, "bob")
	vesselID := full.BuyVessel(t, owner, shared.VesselTypeTanker).VesselID
	_, err = full.Mediator.Send(ctx, &commands.RefuelVesselCommand{VesselID: vesselID, Amount: 10})
	assert.Equal(t, shared.CodeTankFull, shared.CodeOf(err))
}

func TestRefuelVessel_RestocksWhenSaveFails(t *testing.T) {
	var vessels *helpers.FailingVesselRepository
	w := helpers.NewTestWorld(t,
		helpers.WithConfig(lowTank),
		helpers.WithRepositories(func(repos *setup.Repositories) {
			vessels = helpers.NewFailingVesselRepository(repos.Vessels)
			repos.Vessels = vessels
		}))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	vessels.FailSaves(errors.New("disk full"))

	_, err := w.Mediator.Send(context.Background(), &commands.RefuelVesselCommand{VesselID: vesselID, Amount: 100})
	require.Error(t, err)

	assert.Equal(t, 9000, w.Coins(t, player))
	assert.Equal(t, 150, w.Port(t, "Vladivostok").Stock(shared.CommodityOil).Amount)
}

func TestRepairVessel(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(damagedHull))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	partial := w.Send(t, &commands.RepairVesselCommand{VesselID: vesselID, Amount: intPtr(10)}).(*commands.RepairVesselResponse)
	assert.Equal(t, 10, partial.Repaired)
	assert.Equal(t, 50, partial.Cost)
	assert.Equal(t, 70, partial.Health)

	rest := w.Send(t, &commands.RepairVesselCommand{VesselID: vesselID}).(*commands.RepairVesselResponse)
	assert.Equal(t, 30, rest.Repaired)
	assert.Equal(t, 150, rest.Cost)
	assert.Equal(t, 100, rest.Health)
	assert.Equal(t, 9000-200, rest.CoinsRemaining)

	_, err := w.Mediator.Send(context.Background(), &commands.RepairVesselCommand{VesselID: vesselID})
	assert.Equal(t, shared.CodeAlreadyFullHealth, shared.CodeOf(err))

	assert.Equal(t, -200, w.LedgerTotals(t, player)["REPAIR"])
}

func TestRepairVessel_CapsAndRejects(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(damagedHull))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	_, err := w.Mediator.Send(context.Background(), &commands.RepairVesselCommand{VesselID: vesselID, Amount: intPtr(0)})
	assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))

	resp := w.Send(t, &commands.RepairVesselCommand{VesselID: vesselID, Amount: intPtr(500)}).(*commands.RepairVesselResponse)
	assert.Equal(t, 40, resp.Repaired)
	assert.Equal(t, 200, resp.Cost)
}

func TestTowVessel_MovesToFuelPortAndDrainsTank(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID

	resp := w.Send(t, &commands.TowVesselCommand{VesselID: vesselID}).(*commands.TowVesselResponse)

	assert.Equal(t, w.PortID(t, "Saint Petersburg"), resp.FromPortID)
	assert.Equal(t, "Vladivostok", resp.ToPortName)
	assert.InDelta(t, 3528.8, resp.Distance, 0.01)
	assert.Equal(t, 1764, resp.Fee, "round(3528.8 * 0.5)")
	assert.Equal(t, 8500-1764, resp.CoinsRemaining)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Equal(t, w.PortID(t, "Vladivostok"), v.CurrentPortID())
	assert.Zero(t, v.Fuel().Current)
}

func TestTowVessel_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(func(cfg *config.Config) {
		cfg.Game.Initial.Coins = 2500
	}))
	player := w.RegisterPlayer(t, "alice")
	tanker := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &commands.TowVesselCommand{VesselID: tanker})
	assert.Equal(t, shared.CodeAlreadyAtPort, shared.CodeOf(err))

	cargo := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID
	require.Zero(t, w.Coins(t, player))

	_, err = w.Mediator.Send(ctx, &commands.TowVesselCommand{VesselID: cargo})
	assert.Equal(t, shared.CodeInsufficientFunds, shared.CodeOf(err))

	v, err := w.Repos.Vessels.FindByID(ctx, cargo)
	require.NoError(t, err)
	assert.Equal(t, w.PortID(t, "Saint Petersburg"), v.CurrentPortID())
	assert.Equal(t, 100, v.Fuel().Current)
}

func TestTowVessel_ToMaterialsPortKeepsTheTank(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	resp := w.Send(t, &commands.TowVesselCommand{VesselID: vesselID, Target: appVessel.TowToMaterials}).(*commands.TowVesselResponse)

	assert.Equal(t, "materials", resp.Target)
	assert.Equal(t, w.PortID(t, "Vladivostok"), resp.FromPortID)
	assert.Equal(t, "Saint Petersburg", resp.ToPortName)
	assert.Equal(t, 1764, resp.Fee)
	assert.Equal(t, 9000-1764, resp.CoinsRemaining)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Equal(t, w.PortID(t, "Saint Petersburg"), v.CurrentPortID())
	assert.Equal(t, 1000, v.Fuel().Current)

	_, err = w.Mediator.Send(context.Background(), &commands.TowVesselCommand{VesselID: vesselID, Target: appVessel.TowToMaterials})
	assert.Equal(t, shared.CodeAlreadyAtPort, shared.CodeOf(err))

	_, err = w.Mediator.Send(context.Background(), &commands.TowVesselCommand{VesselID: vesselID, Target: "shipyard"})
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	assert.Equal(t, -1764, w.LedgerTotals(t, player)["TOW"])
}

func TestUpgradeVessel_RaisesCrewLevel(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	first := w.Send(t, &commands.UpgradeVesselCommand{VesselID: vesselID}).(*commands.UpgradeVesselResponse)
	assert.Equal(t, 2, first.CrewLevel)
	assert.Equal(t, 500, first.Cost)
	assert.InDelta(t, 1.1, first.SaleBonus, 1e-9)
	assert.Equal(t, 8500, first.CoinsRemaining)

	second := w.Send(t, &commands.UpgradeVesselCommand{VesselID: vesselID}).(*commands.UpgradeVesselResponse)
	assert.Equal(t, 3, second.CrewLevel)
	assert.Equal(t, 1000, second.Cost)
	assert.Equal(t, 7500, second.CoinsRemaining)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Equal(t, 3, v.CrewLevel())
	assert.Equal(t, 1500, v.Stats().TotalCosts)
	assert.Equal(t, -1500, w.LedgerTotals(t, player)["UPGRADE"])
}

func TestUpgradeVessel_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(func(cfg *config.Config) {
		helpers.RoomyConfig(cfg)
		cfg.Game.Initial.CrewLevel = 10
	}))
	player := w.RegisterPlayer(t, "alice")
	veteran := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &commands.UpgradeVesselCommand{VesselID: veteran})
	assert.Equal(t, shared.CodeMaxCrewLevel, shared.CodeOf(err))
	assert.Equal(t, 9000, w.Coins(t, player))

	w.Send(t, &commands.SendVesselCommand{VesselID: veteran, DestinationPortID: w.PortID(t, "Novorossiysk")})
	_, err = w.Mediator.Send(ctx, &commands.UpgradeVesselCommand{VesselID: veteran})
	assert.Equal(t, shared.CodeVesselTraveling, shared.CodeOf(err))

	_, err = w.Mediator.Send(ctx, &commands.UpgradeVesselCommand{VesselID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestUpgradeVessel_RefundsWhenSaveFails(t *testing.T) {
	var vessels *helpers.FailingVesselRepository
	w := helpers.NewTestWorld(t,
		helpers.WithConfig(helpers.RoomyConfig),
		helpers.WithRepositories(func(repos *setup.Repositories) {
			vessels = helpers.NewFailingVesselRepository(repos.Vessels)
			repos.Vessels = vessels
		}))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	vessels.FailSaves(errors.New("disk full"))

	_, err := w.Mediator.Send(context.Background(), &commands.UpgradeVesselCommand{VesselID: vesselID})
	require.Error(t, err)
	assert.Equal(t, 9000, w.Coins(t, player))

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.CrewLevel())
	assert.Equal(t, 500, w.LedgerTotals(t, player)["REFUND"])
}
