package handler

import (
	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
)

// ListDocumentTypes returns the catalog of a subject kind. Subject viewers may omit ?kind=.
//
// @Summary  List document types
// @Tags     document-types
// @Produce  json
// @Param    kind query string false "doctor or business"
// @Success  200 {object} service.CatalogResult
// @Failure  422 {object} errorPayload
// @Router   /document-types [get]
// @Security BearerAuth
func ListDocumentTypes(catalog service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		kind := model.SubjectKind(c.Query("kind"))
		if kind == "" {
			if k, ok := claims.SubjectKind(); ok {
				kind = k
			}
		}

		res, err := catalog.Catalog(c.UserContext(), kind)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
