package middleware

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/logger"
)

// Logger logs one structured line per request with the fields
// request_id, method, path, status and latency (milliseconds, float).
// Server errors are logged at error level and client errors at warn.
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; report what it will write.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = StatusFor(err)
			}
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.UserContext(), level, "http_request",
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)
		return err
	}
}

// LoggerWithWriter logs JSON lines to w with timestamps rendered in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(slog.New(logger.NewJSONHandler(w, loc, slog.LevelInfo)))
}
