package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/port/queries"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/test/helpers"
)

func TestListPorts_OrderedByNameWithStock(t *testing.T) {
	w := helpers.NewTestWorld(t)

	resp := w.Send(t, &queries.ListPortsQuery{}).(*queries.ListPortsResponse)
	require.Len(t, resp.Ports, 3)

	names := []string{resp.Ports[0].Name, resp.Ports[1].Name, resp.Ports[2].Name}
	assert.Equal(t, []string{"Novorossiysk", "Saint Petersburg", "Vladivostok"}, names)

	vladivostok := resp.Ports[2]
	assert.InDelta(t, 43.1155, vladivostok.Lat, 1e-6)
	require.Len(t, vladivostok.Stock, 1)
	assert.Equal(t, "oil", vladivostok.Stock[0].Commodity)
	assert.Equal(t, 150, vladivostok.Stock[0].Amount)
	assert.Equal(t, 14, vladivostok.Stock[0].Price)
}

func TestGetPort(t *testing.T) {
	w := helpers.NewTestWorld(t)

	port := w.Send(t, &queries.GetPortQuery{PortID: w.PortID(t, "Novorossiysk")}).(*queries.PortDTO)
	assert.Equal(t, "Novorossiysk", port.Name)

	_, err := w.Mediator.Send(context.Background(), &queries.GetPortQuery{PortID: "atlantis"})
	assert.True(t, shared.IsNotFound(err))
}

func TestPortDistance_OverrideAndHaversine(t *testing.T) {
	w := helpers.NewTestWorld(t)

	override := w.Send(t, &queries.PortDistanceQuery{From: "Saint Petersburg", To: "Novorossiysk"}).(*queries.PortDistanceResponse)
	assert.Equal(t, 3900.0, override.Distance)

	measured := w.Send(t, &queries.PortDistanceQuery{From: "Vladivostok", To: "Novorossiysk"}).(*queries.PortDistanceResponse)
	assert.InDelta(t, 3822.1, measured.Distance, 0.01)

	_, err := w.Mediator.Send(context.Background(), &queries.PortDistanceQuery{From: "Vladivostok"})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestGenerationRules(t *testing.T) {
	w := helpers.NewTestWorld(t)

	resp := w.Send(t, &queries.GenerationRulesQuery{}).(*queries.GenerationRulesResponse)
	require.Len(t, resp.Rules, 3)

	byPort := make(map[string]*queries.GenerationRuleDTO)
	for _, r := range resp.Rules {
		byPort[r.Port] = r
	}
	novo := byPort["Novorossiysk"]
	require.NotNil(t, novo)
	assert.Equal(t, "provisions", novo.Generates)
	assert.Equal(t, map[string]int{"materials": 1, "oil": 1}, novo.Requires)
	assert.Equal(t, 3, novo.Output)
}
