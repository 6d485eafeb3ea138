package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	"github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func TestTripPreview_MatchesTheVoyage(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	destination := w.PortID(t, "Novorossiysk")

	preview := w.Send(t, &queries.TripPreviewQuery{VesselID: vesselID, DestinationPortID: destination}).(*queries.TripPreviewResponse)
	assert.Equal(t, 459, preview.FuelCost)
	assert.Equal(t, 1000, preview.CurrentFuel)
	assert.True(t, preview.CanAfford)
	assert.Equal(t, 30, preview.TravelTimeSeconds)

	sent := w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: destination}).(*commands.SendVesselResponse)
	assert.Equal(t, preview.FuelCost, sent.FuelCost)
	assert.Equal(t, preview.Distance, sent.Distance)
	assert.True(t, preview.EstimatedArrival.Equal(sent.ArrivalTime))
}

func TestTripPreview_ReportsUnaffordableTrip(t *testing.T) {
	w := helpers.NewTestWorld(t)
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	preview := w.Send(t, &queries.TripPreviewQuery{VesselID: vesselID, DestinationPortID: w.PortID(t, "Saint Petersburg")}).(*queries.TripPreviewResponse)
	assert.False(t, preview.CanAfford)
	assert.Equal(t, 423, preview.FuelCost)

	_, err := w.Mediator.Send(context.Background(), &queries.TripPreviewQuery{VesselID: vesselID, DestinationPortID: "atlantis"})
	assert.True(t, shared.IsNotFound(err))
}

func TestRefuelInfo(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(func(cfg *config.Config) {
		helpers.RoomyConfig(cfg)
		cfg.Game.Initial.Fuel = 940
	}))
	player := w.RegisterPlayer(t, "alice")
	tanker := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	cargo := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID

	full := w.Send(t, &queries.RefuelInfoQuery{VesselID: tanker}).(*queries.RefuelInfoResponse)
	assert.True(t, full.Available)
	assert.Equal(t, "Vladivostok", full.PortName)
	assert.Equal(t, 60, full.MaxAmount)
	assert.Equal(t, 60, full.Amount)
	assert.Equal(t, 60*14, full.Cost)
	assert.Equal(t, 150, full.PortStock)

	partial := w.Send(t, &queries.RefuelInfoQuery{VesselID: tanker, Amount: 5}).(*queries.RefuelInfoResponse)
	assert.Equal(t, 5, partial.Amount)
	assert.Equal(t, 70, partial.Cost)

	elsewhere := w.Send(t, &queries.RefuelInfoQuery{VesselID: cargo}).(*queries.RefuelInfoResponse)
	assert.False(t, elsewhere.Available)
	assert.Equal(t, "Saint Petersburg", elsewhere.PortName)
	assert.Zero(t, elsewhere.Cost)
}

func TestRepairInfo(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(func(cfg *config.Config) {
		helpers.RoomyConfig(cfg)
		cfg.Game.Initial.Health = 75
	}))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	info := w.Send(t, &queries.RepairInfoQuery{VesselID: vesselID}).(*queries.RepairInfoResponse)
	assert.Equal(t, 25, info.Missing)
	assert.Equal(t, 25, info.Amount)
	assert.Equal(t, 5, info.CostPerHealth)
	assert.Equal(t, 125, info.Cost)

	w.Send(t, &commands.RepairVesselCommand{VesselID: vesselID})
	repaired := w.Send(t, &queries.RepairInfoQuery{VesselID: vesselID}).(*queries.RepairInfoResponse)
	assert.Zero(t, repaired.Missing)
	assert.Zero(t, repaired.Cost)
}

func TestTowInfo_AgreesWithTow(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeSupply).VesselID

	info := w.Send(t, &queries.TowInfoQuery{VesselID: vesselID}).(*queries.TowInfoResponse)
	assert.Equal(t, "Vladivostok", info.DestinationPortName)
	assert.Equal(t, 1911, info.Fee, "round(3822.1 * 0.5)")

	tow := w.Send(t, &commands.TowVesselCommand{VesselID: vesselID}).(*commands.TowVesselResponse)
	assert.Equal(t, info.Fee, tow.Fee)
	assert.Equal(t, info.DestinationPortID, tow.ToPortID)
}

func TestTowInfo_MaterialsTargetAgreesWithTow(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	info := w.Send(t, &queries.TowInfoQuery{VesselID: vesselID, Target: appVessel.TowToMaterials}).(*queries.TowInfoResponse)
	assert.Equal(t, "materials", info.Target)
	assert.Equal(t, "Saint Petersburg", info.DestinationPortName)
	assert.Equal(t, 1764, info.Fee)

	tow := w.Send(t, &commands.TowVesselCommand{VesselID: vesselID, Target: appVessel.TowToMaterials}).(*commands.TowVesselResponse)
	assert.Equal(t, info.Fee, tow.Fee)
	assert.Equal(t, info.DestinationPortID, tow.ToPortID)
}

func TestVesselPrice_GrowsWithFleet(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")

	before := w.Send(t, &queries.VesselPriceQuery{PlayerID: player.String(), VesselType: "supply"}).(*queries.VesselPriceResponse)
	assert.Equal(t, 1200, before.Price)
	assert.Equal(t, 1200, before.BasePrice)
	assert.Zero(t, before.Owned)

	w.BuyVessel(t, player, shared.VesselTypeSupply)
	after := w.Send(t, &queries.VesselPriceQuery{PlayerID: player.String(), VesselType: "supply"}).(*queries.VesselPriceResponse)
	assert.Equal(t, 12000, after.Price)
	assert.Equal(t, 1, after.Owned)

	_, err := w.Mediator.Send(context.Background(), &queries.VesselPriceQuery{PlayerID: player.String(), VesselType: "yacht"})
	assert.Equal(t, shared.CodeInvalidVesselType, shared.CodeOf(err))
}

func TestListVessels_CompletesDueArrivals(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	other := w.RegisterPlayer(t, "bob")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	w.BuyVessel(t, player, shared.VesselTypeCargo)
	w.BuyVessel(t, other, shared.VesselTypeSupply)

	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})
	w.Clock.Advance(time.Minute)

	resp := w.Send(t, &queries.ListVesselsQuery{PlayerID: player.String()}).(*queries.ListVesselsResponse)
	require.Len(t, resp.Vessels, 2)
	for _, v := range resp.Vessels {
		assert.False(t, v.IsTraveling, v.Name)
		assert.Equal(t, player.String(), v.OwnerID)
	}

	_, err := w.Mediator.Send(context.Background(), &queries.ListVesselsQuery{PlayerID: "nope"})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
