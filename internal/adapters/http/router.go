package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-locals/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-locals/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-locals/internal/app"
	"github.com/jsamuelsen/go-locals/internal/platform/config"
	"github.com/jsamuelsen/go-locals/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// Scope is the request scope bound around every API request.
	Scope *app.Scope

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// ScopeHandler handles request-scope endpoints.
	ScopeHandler *handlers.ScopeHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline (applied per-route or globally)
//  7. Locals - bind the request scope, release after the handler
//
// Locals comes last so the binding and release happen on the same goroutine
// as the handlers that resolve through it.
//
// Route groups:
//   - /-/ (internal): Health endpoints, not scope-bound
//   - /api/v1/ (public API): Scope-bound endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	// Apply global middleware in order
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Register health endpoints (no timeout for probes, no scope binding)
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	// Setup API v1 routes with timeout and the request scope
	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.Scope != nil {
		apiV1.Use(middleware.Locals(cfg.Scope))
	}

	if cfg.ScopeHandler != nil {
		cfg.ScopeHandler.RegisterScopeRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	scope *app.Scope,
	healthHandler *handlers.HealthHandler,
	scopeHandler *handlers.ScopeHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		Scope:         scope,
		HealthHandler: healthHandler,
		ScopeHandler:  scopeHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
