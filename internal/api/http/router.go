package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supportdesk/internal/api/http/handlers"
	"github.com/spec-kit/supportdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Tasks          *handlers.TasksHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Users.Register)
	api.Post("/auth/login", cfg.Users.Login)
	api.Post("/auth/password/reset/request", cfg.Users.RequestPasswordReset)
	api.Post("/auth/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/password/change", cfg.Users.ChangePassword)
	protected.Get("/user", cfg.Users.Current)
	protected.Get("/users", auth.RequireAdmin(), cfg.Users.List)
	protected.Get("/metrics", auth.RequireAdmin(), cfg.Metrics.Report)

	protected.Get("/categories", cfg.Categories.List)
	protected.Post("/categories", auth.RequireAdmin(), cfg.Categories.Create)
	protected.Delete("/categories/:id", auth.RequireAdmin(), cfg.Categories.Delete)

	dashboard := protected.Group("/dashboard")
	// "pending" is registered before the :category wildcard on purpose.
	dashboard.Get("/pending", auth.RequireAdmin(), cfg.Tasks.ListPending)
	dashboard.Get("/:category", cfg.Tasks.List)
	dashboard.Get("/:category/:id", cfg.Tasks.Get)
	dashboard.Post("/:category", cfg.Tasks.Create)
	dashboard.Put("/:category/:id", auth.RequireAdmin(), cfg.Tasks.Update)
	dashboard.Delete("/:category/:id", auth.RequireAdmin(), cfg.Tasks.Delete)
	dashboard.Post("/:category/:id/approve", auth.RequireAdmin(), cfg.Tasks.Approve)
	dashboard.Post("/:category/:id/reject", auth.RequireAdmin(), cfg.Tasks.Reject)
}
