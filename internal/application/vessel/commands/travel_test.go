package commands_test

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
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func TestSendVessel_DebitsFuelAndStampsTravel(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	resp := w.Send(t, &commands.SendVesselCommand{
		VesselID:          vesselID,
		DestinationPortID: w.PortID(t, "Novorossiysk"),
	}).(*commands.SendVesselResponse)

	assert.InDelta(t, 3822.1, resp.Distance, 0.01)
	assert.Equal(t, 459, resp.FuelCost, "round(3822.1 * 0.12)")
	assert.Equal(t, 541, resp.FuelRemaining)
	assert.Equal(t, 30, resp.TravelTimeSeconds)
	assert.Equal(t, helpers.WorldStart.Add(30*time.Second), resp.ArrivalTime)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	require.True(t, v.IsTraveling())
	assert.Equal(t, w.PortID(t, "Novorossiysk"), v.Travel().DestinationPortID)
	assert.True(t, helpers.WorldStart.Equal(v.Travel().StartedAt))
	assert.Equal(t, 1, v.Stats().TripsCompleted)
	assert.InDelta(t, 3822.1, v.Stats().DistanceTraveled, 0.01)
}

func TestSendVessel_LoadedVesselBurnsSurcharge(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	_, vesselID := loadedTanker(t, w)

	resp := w.Send(t, &commands.SendVesselCommand{
		VesselID:          vesselID,
		DestinationPortID: w.PortID(t, "Novorossiysk"),
	}).(*commands.SendVesselResponse)

	assert.Equal(t, 505, resp.FuelCost, "round(3822.1 * 0.12 * 1.1)")
}

func TestSendVessel_Rejections(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	ctx := context.Background()

	_, err := w.Mediator.Send(ctx, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Vladivostok")})
	assert.Equal(t, shared.CodeSameDestination, shared.CodeOf(err))

	_, err = w.Mediator.Send(ctx, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: "atlantis"})
	assert.True(t, shared.IsNotFound(err))

	_, err = w.Mediator.Send(ctx, &commands.SendVesselCommand{VesselID: "missing", DestinationPortID: w.PortID(t, "Novorossiysk")})
	assert.True(t, shared.IsNotFound(err))

	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})

	// Traveling is reported before the destination is even looked up
	_, err = w.Mediator.Send(ctx, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: "atlantis"})
	assert.Equal(t, shared.CodeAlreadyTraveling, shared.CodeOf(err))
}

func TestSendVessel_InsufficientFuel(t *testing.T) {
	w := helpers.NewTestWorld(t)
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID

	_, err := w.Mediator.Send(context.Background(), &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Saint Petersburg")})

	var insufficient *shared.InsufficientResourceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, shared.CodeInsufficientFuel, insufficient.Code())
	assert.Equal(t, 423, insufficient.Required)
	assert.Equal(t, 100, insufficient.Available)

	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.False(t, v.IsTraveling())
	assert.Equal(t, 100, v.Fuel().Current)
}

func TestArrival_AppliedLazilyOnRead(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})

	w.Clock.Advance(29 * time.Second)
	dto := w.Send(t, &queries.GetVesselQuery{VesselID: vesselID}).(*queries.VesselDTO)
	assert.True(t, dto.IsTraveling)
	assert.Equal(t, w.PortID(t, "Vladivostok"), dto.CurrentPortID)

	w.Clock.Advance(time.Second)
	dto = w.Send(t, &queries.GetVesselQuery{VesselID: vesselID}).(*queries.VesselDTO)
	assert.False(t, dto.IsTraveling, "arrival is due exactly at the end time")
	assert.Equal(t, w.PortID(t, "Novorossiysk"), dto.CurrentPortID)
	assert.Nil(t, dto.TravelEndTime)

	// The arrival was persisted, not just reported
	v, err := w.Repos.Vessels.FindByID(context.Background(), vesselID)
	require.NoError(t, err)
	assert.False(t, v.IsTraveling())
}

func TestCompleteTravel_IsIdempotent(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	vesselID := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	w.Send(t, &commands.SendVesselCommand{VesselID: vesselID, DestinationPortID: w.PortID(t, "Novorossiysk")})

	early := w.Send(t, &commands.CompleteTravelCommand{VesselID: vesselID}).(*commands.CompleteTravelResponse)
	assert.False(t, early.Completed)
	assert.True(t, early.IsTraveling)

	w.Clock.Advance(45 * time.Second)
	first := w.Send(t, &commands.CompleteTravelCommand{VesselID: vesselID}).(*commands.CompleteTravelResponse)
	assert.True(t, first.Completed)
	assert.Equal(t, w.PortID(t, "Novorossiysk"), first.CurrentPortID)

	second := w.Send(t, &commands.CompleteTravelCommand{VesselID: vesselID}).(*commands.CompleteTravelResponse)
	assert.False(t, second.Completed)
	assert.False(t, second.IsTraveling)
	assert.Equal(t, w.PortID(t, "Novorossiysk"), second.CurrentPortID)
}

func TestSweepDueTravels(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player := w.RegisterPlayer(t, "alice")
	first := w.BuyVessel(t, player, shared.VesselTypeTanker).VesselID
	second := w.BuyVessel(t, player, shared.VesselTypeSupply).VesselID
	idle := w.BuyVessel(t, player, shared.VesselTypeCargo).VesselID

	w.Send(t, &commands.SendVesselCommand{VesselID: first, DestinationPortID: w.PortID(t, "Saint Petersburg")})
	w.Clock.Advance(10 * time.Second)
	w.Send(t, &commands.SendVesselCommand{VesselID: second, DestinationPortID: w.PortID(t, "Vladivostok")})

	w.Clock.Advance(25 * time.Second)
	resp := w.Send(t, &commands.SweepDueTravelsCommand{}).(*commands.SweepDueTravelsResponse)
	assert.Equal(t, 1, resp.Checked)
	assert.Equal(t, 1, resp.Completed)
	assert.Equal(t, []string{first}, resp.VesselIDs)

	w.Clock.Advance(10 * time.Second)
	resp = w.Send(t, &commands.SweepDueTravelsCommand{}).(*commands.SweepDueTravelsResponse)
	assert.Equal(t, []string{second}, resp.VesselIDs)

	resp = w.Send(t, &commands.SweepDueTravelsCommand{}).(*commands.SweepDueTravelsResponse)
	assert.Zero(t, resp.Checked)
	assert.Empty(t, resp.VesselIDs)

	v, err := w.Repos.Vessels.FindByID(context.Background(), idle)
	require.NoError(t, err)
	assert.Equal(t, w.PortID(t, "Saint Petersburg"), v.CurrentPortID())
}

func TestSweepDueTravels_StaleSnapshotCannotRestoreSoldCargo(t *testing.T) {
	w := helpers.NewTestWorld(t, helpers.WithConfig(helpers.RoomyConfig))
	player, vesselID := loadedTanker(t, w)
	sail(t, w, vesselID, "Novorossiysk")
	ctx := context.Background()

	// The sweeper lists the vessel, then a client read docks it and sells
	due, err := w.Repos.Vessels.FindTravelingDueBy(ctx, w.Clock.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	snapshot := due[0]

	w.Send(t, &commands.UnloadCargoCommand{VesselID: vesselID})
	coins := w.Coins(t, player)
	assert.Equal(t, 9492, coins)

	completer := appVessel.NewTravelCompleter(w.Repos.Vessels, w.Clock)
	completed, err := completer.CompleteIfDue(ctx, snapshot, appVessel.ArrivalSweeper)
	require.NoError(t, err)
	assert.False(t, completed, "the read already applied this arrival")

	v, err := w.Repos.Vessels.FindByID(ctx, vesselID)
	require.NoError(t, err)
	assert.Nil(t, v.Cargo())
	assert.False(t, v.IsTraveling())
	assert.Equal(t, w.PortID(t, "Novorossiysk"), v.CurrentPortID())

	_, err = w.Mediator.Send(ctx, &commands.UnloadCargoCommand{VesselID: vesselID})
	assert.Equal(t, shared.CodeCargoEmpty, shared.CodeOf(err))
	assert.Equal(t, coins, w.Coins(t, player))
}
