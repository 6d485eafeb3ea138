package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/searoutes-go/internal/application/mediator"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

type sendVesselCommand struct{}

func TestExtractCommandName(t *testing.T) {
	assert.Equal(t, "sendVesselCommand", extractCommandName(&sendVesselCommand{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}

func TestGlobalRecordersAreNoOpsWhenDisabled(t *testing.T) {
	ResetRegistry()

	assert.NotPanics(t, func() {
		RecordVoyage("tanker", 100, 12)
		RecordArrival("lazy")
		RecordSweep(1, 0, 0.1)
		RecordTransaction("REFUEL", "FUEL_COSTS", -10)
		RecordSettlement("oil", 10, 5, 1, 1)
		RecordGeneration("Rotterdam", "oil", 3)
		RecordStoreRetry("vessel.save", StoreRetried)
		RecordIdempotency(IdempotencyFresh)
		RecordInvariantViolation("unload")
	})
	assert.False(t, IsEnabled())
}

func TestPrometheusMiddlewareLabelsErrorKind(t *testing.T) {
	InitRegistry()
	defer ResetRegistry()

	collector := NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	mw := PrometheusMiddleware(collector)
	failing := func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return nil, shared.NewRuleViolation(shared.CodeAlreadyTraveling, "vessel is already traveling")
	}
	succeeding := func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return "done", nil
	}

	_, err := mw(context.Background(), &sendVesselCommand{}, failing)
	require.Error(t, err)
	_, err = mw(context.Background(), &sendVesselCommand{}, succeeding)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("sendVesselCommand", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("sendVesselCommand", shared.KindValidation.String())))
}

func TestReliabilityCollectorCountsThroughGlobals(t *testing.T) {
	InitRegistry()
	defer ResetRegistry()

	collector := NewReliabilityMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalReliabilityCollector(collector)

	RecordIdempotency(IdempotencyReplayed)
	RecordIdempotency(IdempotencyReplayed)
	RecordInvariantViolation("unload")

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.idempotencyOutcomes.WithLabelValues(IdempotencyReplayed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.invariantViolations.WithLabelValues("unload")))
}

func TestFinancialCollectorIgnoresLossesInProfitCounters(t *testing.T) {
	c := NewFinancialMetricsCollector(nil, zerolog.Nop(), 0)

	c.RecordSettlement("oil", -50, -50, 0, 0)
	c.RecordSettlement("oil", 200, 153, 30, 17)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.settlementsTotal.WithLabelValues("oil")))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.grossProfit.WithLabelValues("oil")))
	assert.Equal(t, 153.0, testutil.ToFloat64(c.netProfit.WithLabelValues("oil")))
	assert.Equal(t, 30.0, testutil.ToFloat64(c.feesCollected))
}
