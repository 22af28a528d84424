package handlers

import (
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the routes. limiter may be nil to disable rate limiting.
func NewRouter(h *Handler, corsOrigins []string, limiter *ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	simulate := func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware(h.log))
		}
		r.With(middleware.Timeout(30*time.Second)).Get("/simulate", h.Simulate)
		r.Get("/simulate/stream", h.SimulateStream)
	}

	// The web client calls /simulate directly
	r.Group(simulate)
	r.Route("/api/v1", simulate)

	return r
}
