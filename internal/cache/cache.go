// Package cache holds the last-known-good tier consulted when the backend of record is unreachable.
// The tier is read-only from the caller's point of view: successful backend loads overwrite it and
// fallback reads never merge it with live data.
package cache

import (
	"context"
	"errors"

	"compliancedocs/internal/model"
)

// ErrMiss is returned when no snapshot exists for the requested key.
var ErrMiss = errors.New("cache: miss")

// Snapshot stores the last successful overview per subject and catalog per subject kind.
type Snapshot interface {
	SaveOverview(ctx context.Context, ov model.Overview) error
	LoadOverview(ctx context.Context, subjectID string) (*model.Overview, error)
	SaveCatalog(ctx context.Context, kind model.SubjectKind, types []model.DocumentType) error
	LoadCatalog(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, error)
}

const keyPrefix = "compliancedocs:snapshot:"

func overviewKey(subjectID string) string {
	return keyPrefix + "overview:" + subjectID
}

func catalogKey(kind model.SubjectKind) string {
	return keyPrefix + "catalog:" + string(kind)
}
