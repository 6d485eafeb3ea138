package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "searoutes"
	// Subsystem for server metrics
	subsystem = "server"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// Set by the Set* functions when metrics are enabled. Every Record*
	// package function is a no-op while its collector is nil.
	globalVoyageCollector      VoyageMetricsRecorder
	globalFinancialCollector   FinancialMetricsRecorder
	globalMarketCollector      MarketMetricsRecorder
	globalReliabilityCollector ReliabilityMetricsRecorder
)

// VoyageMetricsRecorder records vessel movement events
type VoyageMetricsRecorder interface {
	RecordVoyage(vesselType string, distance float64, fuel int)
	RecordArrival(source string)
	RecordSweep(completed, failed int, seconds float64)
	RecordFuelPurchase(port string, amount int)
}

// FinancialMetricsRecorder records coin movements and settlements
type FinancialMetricsRecorder interface {
	RecordTransaction(transactionType, category string, amount int)
	RecordSettlement(commodity string, gross, net, fees, tax int)
}

// MarketMetricsRecorder records port production
type MarketMetricsRecorder interface {
	RecordGeneration(port, commodity string, amount int)
}

// ReliabilityMetricsRecorder records store retries, idempotency outcomes
// and broken invariants
type ReliabilityMetricsRecorder interface {
	RecordStoreRetry(operation, outcome string)
	RecordIdempotency(outcome string)
	RecordInvariantViolation(operation string)
}

// InitRegistry initializes the Prometheus registry with the Go runtime and
// process collectors. Should be called once at startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ResetRegistry drops the registry and every global collector
func ResetRegistry() {
	Registry = nil
	globalVoyageCollector = nil
	globalFinancialCollector = nil
	globalMarketCollector = nil
	globalReliabilityCollector = nil
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetGlobalVoyageCollector sets the global voyage metrics collector
func SetGlobalVoyageCollector(collector VoyageMetricsRecorder) {
	globalVoyageCollector = collector
}

// RecordVoyage records a departure globally
func RecordVoyage(vesselType string, distance float64, fuel int) {
	if globalVoyageCollector != nil {
		globalVoyageCollector.RecordVoyage(vesselType, distance, fuel)
	}
}

// RecordArrival records a completed travel globally
func RecordArrival(source string) {
	if globalVoyageCollector != nil {
		globalVoyageCollector.RecordArrival(source)
	}
}

// RecordSweep records one sweeper pass globally
func RecordSweep(completed, failed int, seconds float64) {
	if globalVoyageCollector != nil {
		globalVoyageCollector.RecordSweep(completed, failed, seconds)
	}
}

// RecordFuelPurchase records a refuel globally
func RecordFuelPurchase(port string, amount int) {
	if globalVoyageCollector != nil {
		globalVoyageCollector.RecordFuelPurchase(port, amount)
	}
}

// SetGlobalFinancialCollector sets the global financial metrics collector
func SetGlobalFinancialCollector(collector FinancialMetricsRecorder) {
	globalFinancialCollector = collector
}

// RecordTransaction records a ledger entry globally
func RecordTransaction(transactionType, category string, amount int) {
	if globalFinancialCollector != nil {
		globalFinancialCollector.RecordTransaction(transactionType, category, amount)
	}
}

// RecordSettlement records an unload settlement globally
func RecordSettlement(commodity string, gross, net, fees, tax int) {
	if globalFinancialCollector != nil {
		globalFinancialCollector.RecordSettlement(commodity, gross, net, fees, tax)
	}
}

// SetGlobalMarketCollector sets the global market metrics collector
func SetGlobalMarketCollector(collector MarketMetricsRecorder) {
	globalMarketCollector = collector
}

// RecordGeneration records produced output globally
func RecordGeneration(port, commodity string, amount int) {
	if globalMarketCollector != nil {
		globalMarketCollector.RecordGeneration(port, commodity, amount)
	}
}

// SetGlobalReliabilityCollector sets the global reliability metrics collector
func SetGlobalReliabilityCollector(collector ReliabilityMetricsRecorder) {
	globalReliabilityCollector = collector
}

// RecordStoreRetry records a retried or exhausted store call globally
func RecordStoreRetry(operation, outcome string) {
	if globalReliabilityCollector != nil {
		globalReliabilityCollector.RecordStoreRetry(operation, outcome)
	}
}

// RecordIdempotency records an idempotency gate decision globally
func RecordIdempotency(outcome string) {
	if globalReliabilityCollector != nil {
		globalReliabilityCollector.RecordIdempotency(outcome)
	}
}

// RecordInvariantViolation records a broken cross-entity invariant globally
func RecordInvariantViolation(operation string) {
	if globalReliabilityCollector != nil {
		globalReliabilityCollector.RecordInvariantViolation(operation)
	}
}
