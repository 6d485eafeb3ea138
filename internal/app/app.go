// Package app wires configuration, storage, rules and the mediator into
// one running world shared by the server and the operator CLI.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/adapters/persistence"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/application/mediator"
	"github.com/andrescamacho/searoutes-go/internal/application/setup"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/database"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/logging"
)

// Options tune what Build sets up beyond storage and handlers
type Options struct {
	// Registers Prometheus collectors when cfg.Metrics.Enabled
	Metrics bool

	// Nil uses the real clock
	Clock shared.Clock
}

// App is a fully wired world
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *gorm.DB
	Repos    setup.Repositories
	World    *config.World
	Rules    *appVessel.GameRules
	Mediator common.Mediator
	Breaker  *database.Breaker
	Clock    shared.Clock

	HTTPMetrics *metrics.HTTPMetricsCollector
	pollers     []poller
}

type poller interface {
	Start(ctx context.Context)
	Stop()
}

// Build connects to the store and assembles every handler. The schema is
// not touched; call Migrate for that.
func Build(cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	clock := shared.ClockOrDefault(opts.Clock)

	world, err := config.LoadWorld(cfg.Game.WorldFile)
	if err != nil {
		return nil, err
	}
	rules, err := cfg.GameRules(world)
	if err != nil {
		return nil, fmt.Errorf("failed to build game rules: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	breaker := database.NewBreaker(cfg.Retry.BreakerThreshold, cfg.Retry.BreakerCooldown, clock)
	retry := database.NewRetrier(cfg.Retry, clock, breaker, log.With().Str("component", "store").Logger())

	a := &App{
		Config: cfg,
		Log:    log,
		DB:     db,
		Repos: setup.Repositories{
			Vessels:      persistence.NewGormVesselRepository(db, retry),
			Ports:        persistence.NewGormPortRepository(db, retry),
			Players:      persistence.NewGormPlayerRepository(db, retry),
			Earnings:     persistence.NewGormEarningsRepository(db, retry),
			Transactions: persistence.NewGormTransactionRepository(db, retry),
		},
		World:   world,
		Rules:   rules,
		Breaker: breaker,
		Clock:   clock,
	}

	var middlewares []mediator.Middleware
	if opts.Metrics && cfg.Metrics.Enabled {
		mw, err := a.registerMetrics()
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		middlewares = append(middlewares, mw)
	}

	registry := setup.NewHandlerRegistry(a.Repos, rules, cfg.Game.Initial.Coins, clock)
	a.Mediator, err = registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	if opts.Metrics && cfg.Metrics.Enabled {
		if err := a.registerPollers(); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}

	return a, nil
}

// registerMetrics sets up the collectors that exist before the mediator
// and returns the command timing middleware
func (a *App) registerMetrics() (mediator.Middleware, error) {
	metrics.InitRegistry()

	commands := metrics.NewCommandMetricsCollector()
	voyages := metrics.NewVoyageMetricsCollector()
	reliability := metrics.NewReliabilityMetricsCollector()
	a.HTTPMetrics = metrics.NewHTTPMetricsCollector()

	for name, register := range map[string]func() error{
		"command":     commands.Register,
		"voyage":      voyages.Register,
		"reliability": reliability.Register,
		"http":        a.HTTPMetrics.Register,
	} {
		if err := register(); err != nil {
			return nil, fmt.Errorf("failed to register %s metrics: %w", name, err)
		}
	}

	metrics.SetGlobalVoyageCollector(voyages)
	metrics.SetGlobalReliabilityCollector(reliability)

	return metrics.PrometheusMiddleware(commands), nil
}

// registerPollers sets up the gauges refreshed in the background
func (a *App) registerPollers() error {
	interval := a.Config.Metrics.PollInterval

	financial := metrics.NewFinancialMetricsCollector(a.Mediator, a.Log, interval)
	if err := financial.Register(); err != nil {
		return fmt.Errorf("failed to register financial metrics: %w", err)
	}
	market := metrics.NewMarketMetricsCollector(a.Repos.Ports, a.Log, interval)
	if err := market.Register(); err != nil {
		return fmt.Errorf("failed to register market metrics: %w", err)
	}

	metrics.SetGlobalFinancialCollector(financial)
	metrics.SetGlobalMarketCollector(market)
	a.pollers = append(a.pollers, financial, market)
	return nil
}

// Migrate creates or updates every table
func (a *App) Migrate() error {
	return database.AutoMigrate(a.DB, persistence.Models()...)
}

// Seed stores the world's ports that do not exist yet
func (a *App) Seed(ctx context.Context) (*setup.SeedResult, error) {
	ports, err := a.World.BuildPorts(a.Rules.Prices)
	if err != nil {
		return nil, err
	}
	ctx = common.WithLogger(ctx, logging.NewContextLogger(a.Log))
	return setup.SeedPorts(ctx, a.Repos.Ports, ports)
}

// StartBackground starts the metric pollers
func (a *App) StartBackground(ctx context.Context) {
	for _, p := range a.pollers {
		p.Start(ctx)
	}
}

// Close stops background work and closes the store
func (a *App) Close() error {
	for _, p := range a.pollers {
		p.Stop()
	}
	if a.Config.Metrics.Enabled && len(a.pollers) > 0 {
		metrics.ResetRegistry()
	}
	return database.Close(a.DB)
}
