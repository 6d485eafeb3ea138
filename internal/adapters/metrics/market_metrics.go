package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/domain/market"
)

// MarketMetricsCollector handles port stock, price and production metrics
type MarketMetricsCollector struct {
	ports  market.PortRepository
	logger zerolog.Logger

	generatedTotal *prometheus.CounterVec
	portStock      *prometheus.GaugeVec
	portPrice      *prometheus.GaugeVec

	pollInterval time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewMarketMetricsCollector creates a new market metrics collector
func NewMarketMetricsCollector(ports market.PortRepository, logger zerolog.Logger, pollInterval time.Duration) *MarketMetricsCollector {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &MarketMetricsCollector{
		ports:        ports,
		logger:       logger.With().Str("component", "market_metrics").Logger(),
		pollInterval: pollInterval,

		generatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "generated_units_total",
				Help:      "Units produced by port generation rules",
			},
			[]string{"port", "commodity"},
		),

		portStock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "port_stock_units",
				Help:      "Current stock per port and commodity",
			},
			[]string{"port", "commodity"},
		),

		portPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "port_price_coins",
				Help:      "Current unit price per port and commodity",
			},
			[]string{"port", "commodity"},
		),
	}
}

// Register registers all market metrics with the Prometheus registry
func (c *MarketMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.generatedTotal,
		c.portStock,
		c.portPrice,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins the polling goroutine for stock gauges
func (c *MarketMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.pollStock()
}

// Stop gracefully stops the market metrics collector
func (c *MarketMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *MarketMetricsCollector) pollStock() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.updateStock()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateStock()
		}
	}
}

func (c *MarketMetricsCollector) updateStock() {
	if c.ports == nil {
		return
	}

	ports, err := c.ports.FindAll(c.ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load ports for stock metrics")
		return
	}

	for _, p := range ports {
		for _, entry := range p.Stocks() {
			c.portStock.WithLabelValues(p.Name(), entry.Commodity.String()).Set(float64(entry.Amount))
			c.portPrice.WithLabelValues(p.Name(), entry.Commodity.String()).Set(float64(entry.Price))
		}
	}
}

// RecordGeneration records produced output
func (c *MarketMetricsCollector) RecordGeneration(port, commodity string, amount int) {
	c.generatedTotal.WithLabelValues(port, commodity).Add(float64(amount))
}
