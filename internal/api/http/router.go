package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/withyou-admin/internal/api/http/handlers"
	"github.com/spec-kit/withyou-admin/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Admin          *handlers.AdminHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)

	protected := admin.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/logout", cfg.Admin.Logout)
	protected.Get("/snapshot", cfg.Dashboard.Snapshot)
	protected.Get("/messages", cfg.Dashboard.Messages)
}
