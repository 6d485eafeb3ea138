package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/adapters/httpapi"
	"github.com/andrescamacho/searoutes-go/internal/adapters/idempotency"
	"github.com/andrescamacho/searoutes-go/internal/adapters/scheduler"
	"github.com/andrescamacho/searoutes-go/internal/app"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/logging"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/pidfile"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default: search ./, ./configs, /etc/searoutes)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	logging.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if cfg.Server.PIDFile != "" {
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := pf.Acquire(); err != nil {
			return fmt.Errorf("failed to acquire PID file lock: %w", err)
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Warn().Err(err).Msg("Failed to release PID file")
			}
		}()
	}

	log.Info().Str("database", cfg.Database.Type).Msg("Connecting to database")
	a, err := app.Build(cfg, log, app.Options{Metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Database.AutoMigrate {
		if err := a.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		log.Info().Msg("Schema migrated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seeded, err := a.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed ports: %w", err)
	}
	log.Info().Int("created", len(seeded.Created)).Int("existing", len(seeded.Skipped)).Msg("World ready")

	store, err := idempotency.NewStore(cfg.Idempotency.TTL, cfg.Idempotency.MaxEntries, a.Clock)
	if err != nil {
		return fmt.Errorf("failed to create idempotency store: %w", err)
	}

	sched := scheduler.New(log)
	if cfg.Sweeper.Enabled {
		sweeper := scheduler.NewTravelSweeper(a.Mediator, cfg.Sweeper.Timeout, log)
		// Voyages that ended while the server was down complete right away
		if err := sched.RunNow(sweeper); err != nil {
			log.Warn().Err(err).Msg("Startup travel sweep failed")
		}
		if err := sched.AddJob(cfg.Sweeper.Schedule, sweeper); err != nil {
			return fmt.Errorf("failed to schedule travel sweeper: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	a.StartBackground(ctx)

	srv := httpapi.New(httpapi.Config{
		Log:         log,
		Mediator:    a.Mediator,
		Server:      cfg.Server,
		Metrics:     cfg.Metrics,
		Idempotency: store,
		HTTPMetrics: a.HTTPMetrics,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
