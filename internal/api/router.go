package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/agentlift/agentlift/internal/api/handlers"
	"github.com/agentlift/agentlift/internal/api/middleware"
	"github.com/agentlift/agentlift/internal/observability"
	"github.com/agentlift/agentlift/internal/repository/postgres"
	rediscache "github.com/agentlift/agentlift/internal/repository/redis"
	"github.com/agentlift/agentlift/internal/services/delta"
	"github.com/agentlift/agentlift/internal/storage"
	"github.com/agentlift/agentlift/pkg/httputil"
)

// Router holds the HTTP router and its dependencies
type Router struct {
	chi.Router
	logger *zap.Logger
}

// RouterConfig contains configuration for the router
type RouterConfig struct {
	Service    *delta.Service
	DB         *postgres.DB
	Cache      *rediscache.Cache
	Store      *storage.ExportStore
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	EnableCORS bool
	RateLimit  int
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Handler)
	r.Use(chimw.Timeout(60 * time.Second))

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.HTTPMiddleware)
	}

	// CORS configuration
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Source-Filename"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Rate limiting (if Redis is available)
	if cfg.Cache != nil && cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimitMiddleware(cfg.Cache, cfg.RateLimit, true).Handler)
	}

	// Health check endpoints
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(cfg.DB, cfg.Cache))

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		analysisHandler := handlers.NewAnalysisHandler(cfg.Service, cfg.Store, cfg.Logger)

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", analysisHandler.List)
			r.Post("/", analysisHandler.Create)
			r.Get("/{id}", analysisHandler.Get)
			r.Get("/{id}/status", analysisHandler.Status)
			r.Get("/{id}/export", analysisHandler.Export)
			r.Delete("/{id}", analysisHandler.Delete)
		})
	})

	return &Router{
		Router: r,
		logger: cfg.Logger,
	}
}

// healthHandler returns basic health status
func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "agentlift-api",
	})
}

// readyHandler checks if all dependencies are ready
func readyHandler(db *postgres.DB, cache *rediscache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		allHealthy := true

		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				checks["database"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["database"] = "healthy"
			}
		} else {
			checks["database"] = "not configured"
		}

		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["redis"] = "healthy"
			}
		} else {
			checks["redis"] = "not configured"
		}

		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		httputil.JSON(w, status, map[string]any{
			"status": statusText,
			"checks": checks,
		})
	}
}
