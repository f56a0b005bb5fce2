package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pureiot/support-service/internal/persistence"
)

// HealthHandler answers the root status endpoint.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Root GET /. Dependency probes never change the status code.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	switch {
	case !h.postgres.Configured():
		deps["database"] = "memory"
	case h.postgres.Ping(ctx) != nil:
		deps["database"] = "unavailable"
	default:
		deps["database"] = "ok"
	}
	switch {
	case !h.redis.Configured():
		deps["redis"] = "disabled"
	case h.redis.Ping(ctx) != nil:
		deps["redis"] = "unavailable"
	default:
		deps["redis"] = "ok"
	}

	return c.JSON(fiber.Map{
		"status":  "PureIoT Support API is running",
		"service": h.serviceName,
		"version": h.version,
		"endpoints": fiber.Map{
			"submitTicket": "POST /api/submit-ticket",
			"getTickets":   "GET /api/tickets/:userId",
			"getTicket":    "GET /api/ticket/:ticketId",
			"updateTicket": "GET /update/:ticketId",
		},
		"dependencies": deps,
	})
}
