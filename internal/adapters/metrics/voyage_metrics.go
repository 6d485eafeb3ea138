package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VoyageMetricsCollector handles departures, arrivals and fuel
type VoyageMetricsCollector struct {
	voyagesTotal     *prometheus.CounterVec
	voyageDistance   *prometheus.HistogramVec
	fuelConsumed     *prometheus.CounterVec
	arrivalsTotal    *prometheus.CounterVec
	fuelPurchased    *prometheus.CounterVec
	sweepsTotal      prometheus.Counter
	sweepCompletions *prometheus.CounterVec
	sweepDuration    prometheus.Histogram
}

// NewVoyageMetricsCollector creates a new voyage metrics collector
func NewVoyageMetricsCollector() *VoyageMetricsCollector {
	return &VoyageMetricsCollector{
		voyagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "voyages_total",
				Help:      "Total number of departures by vessel type",
			},
			[]string{"vessel_type"},
		),

		voyageDistance: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "voyage_distance_nm",
				Help:      "Voyage distance distribution in nautical miles",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"vessel_type"},
		),

		fuelConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fuel_consumed_units_total",
				Help:      "Total units of fuel burned by departures",
			},
			[]string{"vessel_type"},
		),

		arrivalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "arrivals_total",
				Help:      "Total number of completed travels by the path that completed them",
			},
			[]string{"source"},
		),

		fuelPurchased: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fuel_purchased_units_total",
				Help:      "Total units of fuel purchased",
			},
			[]string{"port"},
		),

		sweepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweeps_total",
				Help:      "Total number of travel sweeper passes",
			},
		),

		sweepCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_vessels_total",
				Help:      "Vessels handled by the sweeper by outcome",
			},
			[]string{"outcome"},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Travel sweeper pass duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0},
			},
		),
	}
}

// Register registers all voyage metrics with the Prometheus registry
func (c *VoyageMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.voyagesTotal,
		c.voyageDistance,
		c.fuelConsumed,
		c.arrivalsTotal,
		c.fuelPurchased,
		c.sweepsTotal,
		c.sweepCompletions,
		c.sweepDuration,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordVoyage records a departure
func (c *VoyageMetricsCollector) RecordVoyage(vesselType string, distance float64, fuel int) {
	c.voyagesTotal.WithLabelValues(vesselType).Inc()
	c.voyageDistance.WithLabelValues(vesselType).Observe(distance)
	c.fuelConsumed.WithLabelValues(vesselType).Add(float64(fuel))
}

// RecordArrival records a completed travel
func (c *VoyageMetricsCollector) RecordArrival(source string) {
	c.arrivalsTotal.WithLabelValues(source).Inc()
}

// RecordSweep records one sweeper pass
func (c *VoyageMetricsCollector) RecordSweep(completed, failed int, seconds float64) {
	c.sweepsTotal.Inc()
	c.sweepCompletions.WithLabelValues("completed").Add(float64(completed))
	c.sweepCompletions.WithLabelValues("failed").Add(float64(failed))
	c.sweepDuration.Observe(seconds)
}

// RecordFuelPurchase records a refuel
func (c *VoyageMetricsCollector) RecordFuelPurchase(port string, amount int) {
	c.fuelPurchased.WithLabelValues(port).Add(float64(amount))
}
