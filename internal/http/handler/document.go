package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"compliancedocs/internal/auth"
	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
)

// GetOverview returns every catalog document of a subject with its derived status.
//
// @Summary  Subject compliance overview
// @Tags     documents
// @Produce  json
// @Param    subjectId path  string true  "Subject id"
// @Param    kind      query string false "doctor or business (admins only)"
// @Success  200 {object} model.Overview
// @Failure  403 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /subjects/{subjectId}/overview [get]
// @Security BearerAuth
func GetOverview(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, subjectID, kind, err := subjectScope(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		ov, err := docs.Overview(c.UserContext(), subjectID, kind)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ov)
	}
}

// ListDocuments returns the subject's current records.
//
// @Summary  List current documents
// @Tags     documents
// @Produce  json
// @Param    subjectId path string true "Subject id"
// @Success  200 {object} service.RecordListResult
// @Router   /documents/{subjectId} [get]
// @Security BearerAuth
func ListDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		subjectID := c.Params("subjectId")
		if err := authorize(claims, subjectID); err != nil {
			return writeServiceError(c, err)
		}

		res, err := docs.ListCurrent(c.UserContext(), subjectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument stores a file as the subject's current record of a document type.
// Multipart fields: file, document_type_key, subject_id, issue_date (YYYY-MM-DD).
// The camelCase names documentTypeKey, subjectId and issueDate are accepted as well.
//
// @Summary  Upload document
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    file              formData file   true  "Document file"
// @Param    document_type_key formData string true  "Document type key"
// @Param    subject_id        formData string false "Subject id (defaults to the caller's)"
// @Param    issue_date        formData string false "Issue date, YYYY-MM-DD"
// @Success  201 {object} model.DocumentRecord
// @Failure  400 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /documents/upload [post]
// @Security BearerAuth
func UploadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		subjectID := formValue(c, "subject_id", "subjectId")
		if subjectID == "" {
			subjectID = claims.SubjectID
		}
		if err := authorize(claims, subjectID); err != nil {
			return writeServiceError(c, err)
		}
		issueDate, err := parseDate(formValue(c, "issue_date", "issueDate"))
		if err != nil {
			return writeServiceError(c, err)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		kind, _ := claims.SubjectKind()

		rec, err := docs.Upload(c.UserContext(), service.UploadInput{
			SubjectID:       subjectID,
			DocumentTypeKey: formValue(c, "document_type_key", "documentTypeKey"),
			Kind:            kind,
			FileName:        fh.Filename,
			ContentType:     ct,
			Size:            fh.Size,
			Content:         f,
			IssueDate:       issueDate,
			Actor:           claims.UserID,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

type verifyRequest struct {
	VerificationStatus model.VerificationStatus `json:"verification_status"`
	Notes              string                   `json:"notes"`
}

// VerifyDocument records an admin review decision on one record id.
//
// @Summary  Verify or reject a document
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    id   path string        true "Record id"
// @Param    body body verifyRequest true "Decision"
// @Success  200 {object} model.DocumentRecord
// @Failure  409 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /documents/{id}/verify [put]
// @Security BearerAuth
func VerifyDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := viewer(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		rec, err := docs.Verify(c.UserContext(), service.VerifyInput{
			RecordID: c.Params("id"),
			Status:   req.VerificationStatus,
			Notes:    req.Notes,
			Reviewer: claims.UserID,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteDocument removes the current record; its type reverts to missing.
//
// @Summary  Delete document
// @Tags     documents
// @Param    id path string true "Record id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /documents/{id} [delete]
// @Security BearerAuth
func DeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ownedRecord(c, docs)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := docs.Delete(c.UserContext(), c.Params("id"), claims.UserID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument returns a time-limited URL for the record's file.
//
// @Summary  Download link
// @Tags     documents
// @Produce  json
// @Param    id path string true "Record id"
// @Success  200 {object} service.DownloadLink
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/download [get]
// @Security BearerAuth
func DownloadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := ownedRecord(c, docs); err != nil {
			return writeServiceError(c, err)
		}
		link, err := docs.DownloadURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(link)
	}
}

// ownedRecord checks that the caller may act on the subject owning record :id.
func ownedRecord(c *fiber.Ctx, docs service.DocumentService) (*auth.Claims, error) {
	claims, err := viewer(c)
	if err != nil {
		return nil, err
	}
	if claims.IsAdmin() {
		return claims, nil
	}
	rec, err := docs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if err := authorize(claims, rec.SubjectID); err != nil {
		// Another subject's record is reported as absent.
		return nil, errs.ErrNotFound
	}
	return claims, nil
}

func formValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

// parseDate accepts YYYY-MM-DD or RFC 3339. An empty value means no date.
func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, errs.Invalid("issue_date", "must be a date in YYYY-MM-DD format")
}
