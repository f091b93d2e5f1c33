package repository

import (
	"context"

	"compliancedocs/internal/model"
)

// DocumentTypeRepository reads and seeds the document type catalog.
type DocumentTypeRepository interface {
	// List returns the catalog for a subject kind ordered by sort order.
	List(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, error)

	// FindByKey returns one descriptor or errs.ErrNotFound.
	FindByKey(ctx context.Context, key string) (*model.DocumentType, error)

	// Seed inserts descriptors whose key is not stored yet and reports how many were added.
	Seed(ctx context.Context, types []model.DocumentType) (int, error)
}
