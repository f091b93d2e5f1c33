package repository

import (
	"context"
	"time"

	"compliancedocs/internal/model"
)

// DocumentRepository defines data access for document records.
// No business logic here, strictly persistence operations. Rows are never physically removed:
// replaced records are marked superseded and removed records are tombstoned, so a stale id can
// be told apart from an unknown one.
type DocumentRepository interface {
	// ListCurrent returns the current record of every document type the subject holds.
	ListCurrent(ctx context.Context, subjectID string) ([]model.DocumentRecord, error)

	// FindByID returns a record by id, current or not, with its currency flag.
	// Returns errs.ErrNotFound if the id was never stored.
	FindByID(ctx context.Context, id string) (*model.DocumentRecord, bool, error)

	// Replace atomically supersedes the subject's current record for rec.DocumentTypeKey (if any)
	// and inserts rec as the new current record. Concurrent calls serialize; the last one wins.
	// Returns the stored record and the superseded one (nil if there was none).
	Replace(ctx context.Context, rec *model.DocumentRecord) (stored *model.DocumentRecord, previous *model.DocumentRecord, err error)

	// UpdateVerification sets the review outcome only if id is still current.
	// Returns errs.ErrConflict when id was superseded or deleted, errs.ErrNotFound when unknown.
	UpdateVerification(ctx context.Context, id string, u VerificationUpdate) (*model.DocumentRecord, error)

	// Delete tombstones the record if it is current.
	// Returns errs.ErrConflict when id is no longer current, errs.ErrNotFound when unknown.
	Delete(ctx context.Context, id string, at time.Time) error

	// ListPending returns current records awaiting review, oldest first.
	ListPending(ctx context.Context, pq PageQuery) (*PageResult[model.DocumentRecord], error)
}

// VerificationUpdate carries an admin review decision.
type VerificationUpdate struct {
	Status     model.VerificationStatus
	Notes      string
	ReviewedBy string
	ReviewedAt time.Time
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
