package handler

import (
	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/service"
)

// ListReferences returns the subject's professional references and their status.
//
// @Summary  List references
// @Tags     references
// @Produce  json
// @Param    subjectId path string true "Subject id"
// @Success  200 {object} service.ReferenceListResult
// @Router   /subjects/{subjectId}/references [get]
// @Security BearerAuth
func ListReferences(refs service.ReferenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		subjectID := c.Params("subjectId")
		if err := authorize(claims, subjectID); err != nil {
			return writeServiceError(c, err)
		}
		res, err := refs.List(c.UserContext(), subjectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AddReference creates a professional reference.
//
// @Summary  Add reference
// @Tags     references
// @Accept   json
// @Produce  json
// @Param    subjectId path string                 true "Subject id"
// @Param    body      body service.ReferenceInput true "Reference"
// @Success  201 {object} model.Reference
// @Failure  422 {object} errorPayload
// @Router   /subjects/{subjectId}/references [post]
// @Security BearerAuth
func AddReference(refs service.ReferenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		subjectID := c.Params("subjectId")
		if err := authorize(claims, subjectID); err != nil {
			return writeServiceError(c, err)
		}
		var in service.ReferenceInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ref, err := refs.Add(c.UserContext(), subjectID, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ref)
	}
}

// DeleteReference removes a professional reference.
//
// @Summary  Delete reference
// @Tags     references
// @Param    subjectId path string true "Subject id"
// @Param    id        path string true "Reference id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /subjects/{subjectId}/references/{id} [delete]
// @Security BearerAuth
func DeleteReference(refs service.ReferenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		subjectID := c.Params("subjectId")
		if err := authorize(claims, subjectID); err != nil {
			return writeServiceError(c, err)
		}
		if err := refs.Delete(c.UserContext(), subjectID, c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
