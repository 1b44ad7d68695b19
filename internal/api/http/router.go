package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/swift-ticket/internal/api/http/handlers"
	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Registry       *prometheus.Registry
}

// NewApp builds the Fiber app. Immutable makes every value read from the
// request outlive the handler.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
	})
}

// RegisterRoutes wires HTTP routes. Permission flags gate the same actions
// the ticket views offered: creating needs canCreate, replying needs
// canReply, closing is staff only, the dashboard needs isAdminPanel and
// account management is for ADMIN sessions.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", auth.RequirePermission("canCreate", auth.CanCreate), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", auth.RequirePermission("canReply", auth.CanReply), cfg.Tickets.AddMessage)
	tickets.Post("/:id/close", auth.RequireStaff(), cfg.Tickets.CloseTicket)

	app.Get("/units/support", cfg.AuthMiddleware.Handle, cfg.Tickets.SupportUnits)
	app.Get("/dashboard", cfg.AuthMiddleware.Handle, auth.RequirePermission("isAdminPanel", auth.IsAdminPanel), cfg.Dashboard.Get)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/units", cfg.Admin.ListUnits)
	admin.Post("/units", cfg.Admin.CreateUnit)
	admin.Delete("/units/:id", cfg.Admin.DeleteUnit)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Patch("/users/:username", cfg.Admin.UpdateUser)
	admin.Delete("/users/:username", cfg.Admin.DeleteUser)
}
