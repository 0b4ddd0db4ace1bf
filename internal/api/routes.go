// Package api provides the HTTP API for the Opsdesk server.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/opsdesk/internal/api/handlers"
	"github.com/opsdesk/opsdesk/internal/api/middleware"
	"github.com/opsdesk/opsdesk/internal/config"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/slaconfig"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies. Bulk payloads are lists of small JSON
// objects, so 1 MiB is generous.
const maxBodyBytes = 1 << 20

// Config holds configuration for the API router.
type Config struct {
	// Environment controls environment-dependent policies such as CORS.
	Environment config.Environment
	// AllowedOrigins for CORS. Empty means all origins allowed in dev mode.
	AllowedOrigins []string
	// APIToken is the static bearer token protecting /api/v1. Empty disables auth.
	APIToken string
	// RateLimitRequests is the number of requests allowed per period; 0 disables.
	RateLimitRequests int
	// RateLimitPeriod is the rate limit window.
	RateLimitPeriod time.Duration
	// Version information for the version endpoint.
	Version   string
	Commit    string
	BuildDate string
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		Environment:       config.EnvDevelopment,
		AllowedOrigins:    []string{},
		RateLimitRequests: 300,
		RateLimitPeriod:   time.Minute,
		Version:           "dev",
		Commit:            "unknown",
		BuildDate:         "unknown",
	}
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
	db     *db.DB
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(cfg Config, database *db.DB, logger zerolog.Logger) *Router {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
		db:     database,
	}

	// Global middleware
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.SecurityHeaders())
	r.Engine.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Environment))
	r.Engine.Use(middleware.BodyLimit(maxBodyBytes))
	r.Engine.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod))

	// Health check endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(database, logger)
	healthHandler.RegisterPublicRoutes(r.Engine)

	// Prometheus metrics endpoint (no auth required)
	metricsHandler := handlers.NewMetricsHandler()
	metricsHandler.RegisterPublicRoutes(r.Engine)

	// Version endpoint (no auth required)
	versionHandler := handlers.NewVersionHandler(cfg.Version, cfg.Commit, cfg.BuildDate)
	versionHandler.RegisterPublicRoutes(r.Engine)

	// API v1 routes. Responses carry no-cache headers so no caller ever
	// observes a stale rule set.
	apiV1 := r.Engine.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.APIToken, logger))
	apiV1.Use(middleware.NoCache())

	engine := slaconfig.NewEngine(database, logger)
	slaHandler := handlers.NewSLAConfigurationsHandler(engine, logger)
	slaHandler.RegisterRoutes(apiV1)

	companiesHandler := handlers.NewCompaniesHandler(database, logger)
	companiesHandler.RegisterRoutes(apiV1)

	departmentsHandler := handlers.NewDepartmentsHandler(database, logger)
	departmentsHandler.RegisterRoutes(apiV1)

	incidentTypesHandler := handlers.NewIncidentTypesHandler(database, logger)
	incidentTypesHandler.RegisterRoutes(apiV1)

	prioritiesHandler := handlers.NewPrioritiesHandler(database, logger)
	prioritiesHandler.RegisterRoutes(apiV1)

	usersHandler := handlers.NewUsersHandler(database, logger)
	usersHandler.RegisterRoutes(apiV1)

	r.logger.Info().Msg("API router initialized")
	return r
}
