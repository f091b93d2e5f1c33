package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/errs"
)

// StatusFor maps a domain error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, errs.ErrTransient):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
