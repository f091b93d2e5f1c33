package middleware

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/auth"
	"compliancedocs/internal/errs"
)

// ClaimsLocalKey is the key under which RequireAuth stores the viewer's claims.
const ClaimsLocalKey = "claims"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(v TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)
		}
		claims, err := v.Validate(strings.TrimSpace(token))
		if err != nil {
			return err
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRole lets through viewers holding one of roles. It must run after RequireAuth.
func RequireRole(roles ...auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)
		}
		if !slices.Contains(roles, claims.Role) {
			return fmt.Errorf("%w: role %s", errs.ErrForbidden, claims.Role)
		}
		return c.Next()
	}
}

// Claims returns the claims stored by RequireAuth, or nil.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
