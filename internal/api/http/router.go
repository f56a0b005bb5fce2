package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pureiot/support-service/internal/api/http/handlers"
	"github.com/pureiot/support-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Updates     *handlers.UpdateFormHandler
	SubmitLimit fiber.Handler
}

// ServerConfig bundles what NewApp needs besides routes.
type ServerConfig struct {
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Timeout        time.Duration
	ProxyHeader    string
	TrustedProxies []string
}

// NewApp builds the fiber application with middlewares and routes. Routing is
// case sensitive and strict about trailing slashes. Request values are
// immutable so parsed form fields outlive the request buffer.
func NewApp(cfg ServerConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		CaseSensitive:           true,
		StrictRouting:           true,
		Immutable:               true,
		DisableStartupMessage:   true,
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: len(cfg.TrustedProxies) > 0,
		TrustedProxies:          cfg.TrustedProxies,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.Timeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)

	app.Get("/update/:ticketId", cfg.Updates.Show)
	app.Post("/update/:ticketId", cfg.Updates.Submit)

	api := app.Group("/api")
	if cfg.SubmitLimit != nil {
		api.Post("/submit-ticket", cfg.SubmitLimit, cfg.Tickets.Submit)
	} else {
		api.Post("/submit-ticket", cfg.Tickets.Submit)
	}
	api.Get("/tickets/:userId", cfg.Tickets.ListForUser)
	api.Get("/ticket/:ticketId", cfg.Tickets.Get)

	app.Use(routeNotFound)
}
