package handler

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/auth"
	"compliancedocs/internal/errs"
	"compliancedocs/internal/http/middleware"
	"compliancedocs/internal/model"
)

// viewer returns the authenticated caller.
func viewer(c *fiber.Ctx) (*auth.Claims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)
	}
	return claims, nil
}

// authorize checks that the caller may act on subjectID.
func authorize(claims *auth.Claims, subjectID string) error {
	if !claims.CanAccess(subjectID) {
		return fmt.Errorf("%w: subject %s", errs.ErrForbidden, subjectID)
	}
	return nil
}

// subjectScope resolves the :subjectId route parameter and its catalog kind.
// Doctors and businesses get the kind of their token; admins name it with ?kind=.
func subjectScope(c *fiber.Ctx) (*auth.Claims, string, model.SubjectKind, error) {
	claims, err := viewer(c)
	if err != nil {
		return nil, "", "", err
	}
	subjectID := c.Params("subjectId")
	if err := authorize(claims, subjectID); err != nil {
		return nil, "", "", err
	}
	kind, err := kindFor(c, claims)
	if err != nil {
		return nil, "", "", err
	}
	return claims, subjectID, kind, nil
}

func kindFor(c *fiber.Ctx, claims *auth.Claims) (model.SubjectKind, error) {
	if kind, ok := claims.SubjectKind(); ok {
		return kind, nil
	}
	kind := model.SubjectKind(c.Query("kind"))
	if !kind.Valid() {
		return "", errs.Invalid("kind", "must be doctor or business")
	}
	return kind, nil
}

// idParam returns the :id parameter, decoding escaped separators of notification ids.
func idParam(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
