package repository

import (
	"context"

	"compliancedocs/internal/model"
)

// ReferenceRepository persists professional references.
type ReferenceRepository interface {
	List(ctx context.Context, subjectID string) ([]model.Reference, error)
	Count(ctx context.Context, subjectID string) (int, error)
	Create(ctx context.Context, ref *model.Reference) (*model.Reference, error)
	// Delete removes a reference owned by subjectID or returns errs.ErrNotFound.
	Delete(ctx context.Context, subjectID, id string) error
}
