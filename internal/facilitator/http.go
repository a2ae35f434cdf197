package facilitator

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/x402-solana/facilitator/internal/config"
	"github.com/x402-solana/facilitator/internal/logger"
	"github.com/x402-solana/facilitator/internal/metrics"
	"github.com/x402-solana/facilitator/internal/ratelimit"
)

// Server wires the facilitator's HTTP surface (spec §6.1) around a Service.
// Grounded on internal/httpserver/server.go's Server/handlers split.
type Server struct {
	handlers
	httpServer *http.Server
}

type handlers struct {
	service *Service
}

// New builds the HTTP server with a configured chi router.
func New(cfg *config.Config, svc *Service, metricsCollector *metrics.Metrics, appLogger zerolog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		handlers: handlers{service: svc},
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			ReadTimeout:  cfg.Server.ReadTimeout.Duration,
			WriteTimeout: cfg.Server.WriteTimeout.Duration,
			IdleTimeout:  cfg.Server.IdleTimeout.Duration,
			Handler:      router,
		},
	}

	ConfigureRouter(router, cfg, svc, metricsCollector, appLogger)

	return s
}

// ConfigureRouter attaches the facilitator's routes to an existing router.
// Split out from New so tests can mount the router against an httptest
// server without a real *http.Server.
func ConfigureRouter(router chi.Router, cfg *config.Config, svc *Service, metricsCollector *metrics.Metrics, appLogger zerolog.Logger) {
	if router == nil {
		return
	}

	h := handlers{service: svc}

	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}).Handler)
	}

	router.Use(securityHeaders)
	router.Use(maxBody)
	router.Use(logger.Middleware(appLogger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Use(ratelimit.GlobalLimiter(ratelimit.Config{
		Enabled: cfg.RateLimit.GlobalEnabled,
		Limit:   cfg.RateLimit.GlobalLimit,
		Window:  cfg.RateLimit.GlobalWindow.Duration,
		Metrics: metricsCollector,
	}))

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	// Lightweight discovery/health endpoints get a short timeout — no
	// chain I/O happens on these paths.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.DiscoveryTimeout.Duration))
		r.Get("/health", h.health)
		r.Get("/supported", h.supported)
		r.With(adminMetricsAuth(cfg.Metrics.AdminAPIKey)).Handle("/metrics", promhttp.Handler())
	})

	// /verify never submits a transaction, just reads.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.VerifyTimeout.Duration))
		r.Post("/verify", h.verify)
		r.Get("/transaction/{signature}", h.transaction)
	})

	// /settle may submit and wait for confirmation.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.SettleTimeout.Duration))
		r.Post("/settle", h.settle)
	})
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
