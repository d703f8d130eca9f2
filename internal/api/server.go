// Package api provides the HTTP API server and handlers for the media list application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mymedialist/medialist-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store             *store.Store
	services          *Services
	router            *chi.Mux
	api               huma.API
	logger            *slog.Logger
	authRateLimiter   *RateLimiter
	globalRateLimiter *RateLimiter
}

// Options holds tunable server settings.
type Options struct {
	// AuthRatePerMinute caps login/register attempts per client IP.
	AuthRatePerMinute int
	AuthRateBurst     int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.AuthRatePerMinute <= 0 {
		opts.AuthRatePerMinute = 20
	}
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 10
	}

	router := chi.NewRouter()

	// Coarse whole-API limit; credential endpoints apply a much tighter
	// per-IP limit in their handlers.
	globalLimiter := NewRateLimiter(600, time.Minute, 120)
	var limitLogger interface{ Warn(msg string, args ...any) }
	if logger != nil {
		limitLogger = logger
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(RateLimitMiddleware(globalLimiter, limitLogger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Token validation happens before routing so any handler can read the
	// user from context.
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("MyMediaList API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:             store,
		services:          services,
		router:            router,
		api:               api,
		logger:            logger,
		authRateLimiter:   NewRateLimiter(opts.AuthRatePerMinute, time.Minute, opts.AuthRateBurst),
		globalRateLimiter: globalLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerListRoutes()
	s.registerProfileRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server resources.
func (s *Server) Close() {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
	if s.globalRateLimiter != nil {
		s.globalRateLimiter.Stop()
	}
}
