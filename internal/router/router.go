package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unidash/unidash-api/internal/config"
	"github.com/unidash/unidash-api/internal/handler"
	"github.com/unidash/unidash-api/internal/middleware"
	"github.com/unidash/unidash-api/internal/observability"
)

// Dependencies bundles everything the route tree needs.
type Dependencies struct {
	Config  config.Config
	Content *handler.ModuleContentHandler
	Catalog *handler.ModuleCatalogHandler
	History *handler.HistoryHandler
}

// Register wires the full API route tree onto the app.
func Register(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")

	api.Get("/health", handler.HealthCheck(deps.Config))
	api.Get("/metrics", observability.MetricsHandler())

	protected := api.Group("", middleware.JWTProtected(deps.Config.JWTSecret))

	writeGuard := middleware.RateLimit("module-write", 30, time.Minute)

	modules := protected.Group("/modules")
	deps.Catalog.Register(modules, writeGuard)
	deps.Content.Register(modules, writeGuard)
	deps.History.RegisterModuleRoutes(modules)
	deps.History.RegisterUserRoutes(protected)
}
