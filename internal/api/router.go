package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"scamtrap-lab/internal/api/handlers"
	apimiddleware "scamtrap-lab/internal/api/middleware"
	"scamtrap-lab/internal/config"
	"scamtrap-lab/internal/infrastructure/cache"
	"scamtrap-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))

		// Honeypot conversation endpoint
		api.Post("/honeypot", r.handlers.Honeypot.ProcessMessage)

		// Direct intelligence endpoints
		api.Route("/intel", func(intel chi.Router) {
			intel.Post("/extract", r.handlers.Intel.Extract)
			intel.Post("/classify", r.handlers.Intel.Classify)
		})

		// URL analysis endpoints
		api.Route("/url", func(url chi.Router) {
			url.Post("/analyze", r.handlers.URL.Analyze)
		})

		// Session intelligence endpoints
		api.Route("/session", func(session chi.Router) {
			session.Get("/{id}", r.handlers.Session.Get)
			session.Get("/{id}/report", r.handlers.Session.Report)
			session.Get("/{id}/context", r.handlers.Session.Context)
			session.Delete("/{id}", r.handlers.Session.Delete)
		})
	})

	return router
}
