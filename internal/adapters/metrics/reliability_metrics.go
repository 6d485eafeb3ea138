package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Idempotency gate outcomes
const (
	IdempotencyFresh      = "fresh"
	IdempotencyReplayed   = "replayed"
	IdempotencyInProgress = "in_progress"
)

// Store retry outcomes
const (
	StoreRetried   = "retried"
	StoreExhausted = "exhausted"
	StoreRejected  = "rejected"
)

// ReliabilityMetricsCollector tracks how often the system had to recover
type ReliabilityMetricsCollector struct {
	storeRetries        *prometheus.CounterVec
	idempotencyOutcomes *prometheus.CounterVec
	invariantViolations *prometheus.CounterVec
}

// NewReliabilityMetricsCollector creates a new reliability metrics collector
func NewReliabilityMetricsCollector() *ReliabilityMetricsCollector {
	return &ReliabilityMetricsCollector{
		storeRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_retries_total",
				Help:      "Transient store failures by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		idempotencyOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "idempotency_requests_total",
				Help:      "Keyed mutation requests by gate outcome",
			},
			[]string{"outcome"},
		),

		invariantViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invariant_violations_total",
				Help:      "Cross-entity inconsistencies that could not be compensated",
			},
			[]string{"operation"},
		),
	}
}

// Register registers all reliability metrics with the Prometheus registry
func (c *ReliabilityMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.storeRetries,
		c.idempotencyOutcomes,
		c.invariantViolations,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordStoreRetry records a retried or exhausted store call
func (c *ReliabilityMetricsCollector) RecordStoreRetry(operation, outcome string) {
	c.storeRetries.WithLabelValues(operation, outcome).Inc()
}

// RecordIdempotency records an idempotency gate decision
func (c *ReliabilityMetricsCollector) RecordIdempotency(outcome string) {
	c.idempotencyOutcomes.WithLabelValues(outcome).Inc()
}

// RecordInvariantViolation records a broken cross-entity invariant
func (c *ReliabilityMetricsCollector) RecordInvariantViolation(operation string) {
	c.invariantViolations.WithLabelValues(operation).Inc()
}
