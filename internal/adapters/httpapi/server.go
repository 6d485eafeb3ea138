package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/adapters/idempotency"
	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/infrastructure/config"
)

// Config holds server dependencies
type Config struct {
	Log         zerolog.Logger
	Mediator    common.Mediator
	Server      config.ServerConfig
	Metrics     config.MetricsConfig
	Idempotency *idempotency.Store

	// Optional
	HTTPMetrics *metrics.HTTPMetricsCollector
	Validator   *config.Validator
}

// Server is the JSON HTTP surface over the mediator
type Server struct {
	router      *chi.Mux
	server      *http.Server
	log         zerolog.Logger
	mediator    common.Mediator
	idempotency *idempotency.Store
	limiter     *ipRateLimiter
	httpMetrics *metrics.HTTPMetricsCollector
	validate    *config.Validator
	cfg         Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	validate := cfg.Validator
	if validate == nil {
		validate = config.NewValidator()
	}

	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "http").Logger(),
		mediator:    cfg.Mediator,
		idempotency: cfg.Idempotency,
		httpMetrics: cfg.HTTPMetrics,
		validate:    validate,
		cfg:         cfg,
	}
	if cfg.Server.RateLimit.Requests > 0 {
		s.limiter = newIPRateLimiter(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestSize(maxBodyBytes))
	s.router.Use(s.loggingMiddleware)

	if s.httpMetrics != nil {
		s.router.Use(s.httpMetrics.Middleware)
	}

	origins := s.cfg.Server.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", IdempotencyKeyHeader, AltIdempotencyKeyHeader},
		ExposedHeaders: []string{ReplayedHeader, "X-Request-Id"},
		MaxAge:         s.cfg.Server.CORS.MaxAge,
	}))

	if s.limiter != nil {
		s.router.Use(s.rateLimitMiddleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	if s.cfg.Metrics.Enabled {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.Handle(path, metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Post("/", s.handleRegisterPlayer)
			r.Get("/{playerID}", s.handleGetPlayer)
			r.Get("/{playerID}/vessels", s.handleListVessels)
			r.Get("/{playerID}/earnings", s.handleGetEarnings)
			r.Get("/{playerID}/transactions", s.handleGetTransactions)
		})

		r.Get("/rating", s.handleGetRating)

		r.Route("/ports", func(r chi.Router) {
			r.Get("/", s.handleListPorts)
			r.Get("/generation-rules", s.handleGenerationRules)
			r.Get("/distance", s.handlePortDistance)
			r.Get("/{portID}", s.handleGetPort)
		})

		r.Route("/vessels", func(r chi.Router) {
			r.Get("/price", s.handleVesselPrice)
			r.With(s.idempotencyMiddleware).Post("/buy", s.handleBuyVessel)
			r.Post("/check-travels", s.handleCheckTravels)

			r.Route("/{vesselID}", func(r chi.Router) {
				r.Get("/", s.handleGetVessel)
				r.Get("/check-travel", s.handleCheckTravel)
				r.Get("/trip-preview", s.handleTripPreview)
				r.Get("/refuel-info", s.handleRefuelInfo)
				r.Get("/repair-info", s.handleRepairInfo)
				r.Get("/tow-info", s.handleTowInfo)
				r.Get("/tow-materials-info", s.handleTowMaterialsInfo)

				r.Group(func(r chi.Router) {
					r.Use(s.idempotencyMiddleware)
					r.Post("/travel", s.handleTravel)
					r.Post("/load", s.handleLoad)
					r.Post("/unload", s.handleUnload)
					r.Post("/repair", s.handleRepair)
					r.Post("/refuel", s.handleRefuel)
					r.Post("/tow", s.handleTow)
					r.Post("/tow-materials", s.handleTowMaterials)
					r.Post("/upgrade", s.handleUpgrade)
				})
			})
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(w, http.StatusNotFound, "route not found", "ROUTE_NOT_FOUND")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info().Str("address", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, envelope{"status": "ok"})
}
