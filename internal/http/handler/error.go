package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_FAILED", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates a service error. Validation failures name the failing
// constraint; anything unexpected is logged and reported as a generic internal error.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", ve.Error())
	}

	status := middleware.StatusFor(err)
	switch status {
	case fiber.StatusConflict:
		return writeError(c, status, "DOCUMENT_CHANGED", "document changed, please refresh")
	case fiber.StatusNotFound:
		return writeError(c, status, "NOT_FOUND", "resource not found")
	case fiber.StatusUnauthorized:
		return writeError(c, status, "UNAUTHORIZED", "authentication required")
	case fiber.StatusForbidden:
		return writeError(c, status, "FORBIDDEN", "not allowed to access this resource")
	case fiber.StatusServiceUnavailable:
		slog.WarnContext(c.UserContext(), "backend unavailable", "request_id", requestIDFromCtx(c), "error", err)
		return writeError(c, status, "SERVICE_UNAVAILABLE", "service temporarily unavailable, please retry")
	default:
		slog.ErrorContext(c.UserContext(), "request failed", "request_id", requestIDFromCtx(c), "error", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// It also reports errors returned by middleware such as the auth gate.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return writeServiceError(c, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
		}
	}
}
