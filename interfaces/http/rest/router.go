// Package rest wires the HTTP surface: routing, middleware, and handler
// registration.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"wikiracer/infrastructure/di"
	"wikiracer/interfaces/http/rest/handlers"
	"wikiracer/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if cfg.EnableTracing {
		router.Use(rt.container.Tracer.Middleware)
	}

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret, cfg.JWTIssuer, rt.logger))

		raceHandler := handlers.NewRaceHandler(rt.container.QueryBus, rt.container.Tracer, rt.logger)
		r.Get("/race", raceHandler.Race)

		r.Route("/pages", func(r chi.Router) {
			pageHandler := handlers.NewPageHandler(
				rt.container.CommandBus,
				rt.container.QueryBus,
				rt.container.CleanupHandler,
				rt.logger,
			)
			r.Get("/{title}", pageHandler.GetPage)
			r.Post("/", pageHandler.PrewarmPage)
			r.Post("/cleanup", pageHandler.CleanupPages)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests. The process is ready once
// the container is wired; store reachability is surfaced per-request.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
