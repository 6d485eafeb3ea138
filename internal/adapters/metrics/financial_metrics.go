package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
	playerQueries "github.com/andrescamacho/searoutes-go/internal/application/player/queries"
)

// FinancialMetricsCollector handles ledger, settlement and leaderboard metrics
type FinancialMetricsCollector struct {
	mediator common.Mediator
	logger   zerolog.Logger

	transactionsTotal *prometheus.CounterVec
	transactionAmount *prometheus.HistogramVec

	settlementsTotal *prometheus.CounterVec
	grossProfit      *prometheus.CounterVec
	netProfit        *prometheus.CounterVec
	feesCollected    prometheus.Counter
	taxCollected     prometheus.Counter

	// Top earners, refreshed from the rating query
	playerEarnings *prometheus.GaugeVec

	pollInterval time.Duration
	topPlayers   int

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewFinancialMetricsCollector creates a new financial metrics collector
func NewFinancialMetricsCollector(mediator common.Mediator, logger zerolog.Logger, pollInterval time.Duration) *FinancialMetricsCollector {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &FinancialMetricsCollector{
		mediator:     mediator,
		logger:       logger.With().Str("component", "financial_metrics").Logger(),
		pollInterval: pollInterval,
		topPlayers:   20,

		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transactions_total",
				Help:      "Total number of ledger transactions by type and category",
			},
			[]string{"type", "category"},
		),

		transactionAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transaction_amount_coins",
				Help:      "Distribution of absolute transaction amounts",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"type", "category"},
		),

		settlementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "settlements_total",
				Help:      "Total number of unload settlements by commodity",
			},
			[]string{"commodity"},
		),

		grossProfit: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gross_profit_coins_total",
				Help:      "Sum of positive gross profit from unloads",
			},
			[]string{"commodity"},
		),

		netProfit: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "net_profit_coins_total",
				Help:      "Sum of positive net profit from unloads",
			},
			[]string{"commodity"},
		),

		feesCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fees_coins_total",
				Help:      "Platform fees withheld from unloads",
			},
		),

		taxCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tax_coins_total",
				Help:      "Tax withheld from unloads",
			},
		),

		playerEarnings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "player_earnings_coins",
				Help:      "Total earnings of the top players",
			},
			[]string{"player_id", "username"},
		),
	}
}

// Register registers all financial metrics with the Prometheus registry
func (c *FinancialMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.transactionsTotal,
		c.transactionAmount,
		c.settlementsTotal,
		c.grossProfit,
		c.netProfit,
		c.feesCollected,
		c.taxCollected,
		c.playerEarnings,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling the leaderboard
func (c *FinancialMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.pollEarnings()
}

// Stop gracefully stops the polling goroutine
func (c *FinancialMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *FinancialMetricsCollector) pollEarnings() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.updateEarnings()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateEarnings()
		}
	}
}

func (c *FinancialMetricsCollector) updateEarnings() {
	if c.mediator == nil {
		return
	}

	response, err := c.mediator.Send(c.ctx, &playerQueries.GetRatingQuery{Limit: c.topPlayers})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to fetch rating for earnings metrics")
		return
	}
	rating, ok := response.(*playerQueries.GetRatingResponse)
	if !ok {
		c.logger.Warn().Msgf("Unexpected response type for rating query: %T", response)
		return
	}

	c.playerEarnings.Reset()
	for _, entry := range rating.Entries {
		c.playerEarnings.WithLabelValues(entry.PlayerID, entry.Username).Set(float64(entry.Earnings))
	}
}

// RecordTransaction records a ledger entry
func (c *FinancialMetricsCollector) RecordTransaction(transactionType, category string, amount int) {
	c.transactionsTotal.WithLabelValues(transactionType, category).Inc()

	if amount < 0 {
		amount = -amount
	}
	c.transactionAmount.WithLabelValues(transactionType, category).Observe(float64(amount))
}

// RecordSettlement records an unload settlement. Losses count as settlements
// but do not reduce the profit counters.
func (c *FinancialMetricsCollector) RecordSettlement(commodity string, gross, net, fees, tax int) {
	c.settlementsTotal.WithLabelValues(commodity).Inc()
	if gross > 0 {
		c.grossProfit.WithLabelValues(commodity).Add(float64(gross))
	}
	if net > 0 {
		c.netProfit.WithLabelValues(commodity).Add(float64(net))
	}
	c.feesCollected.Add(float64(fees))
	c.taxCollected.Add(float64(tax))
}
