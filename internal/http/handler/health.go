package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReadinessChecker is a dependency that can report whether it is reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthCheck checks database connectivity and, when store is non-nil, the object storage bucket.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} errorPayload
// @Router   /health [get]
func HealthCheck(db *sql.DB, store ReadinessChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.WarnContext(ctx, "readiness_failed", "dependency", "database", "error", err)
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unavailable")
		}
		if store != nil {
			if err := store.Ready(ctx); err != nil {
				slog.WarnContext(ctx, "readiness_failed", "dependency", "object_storage", "error", err)
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "object storage unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
