package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"compliancedocs/internal/cache"
	"compliancedocs/internal/compliance"
	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

// CatalogResult is the document type catalog of one subject kind.
type CatalogResult struct {
	Types []model.DocumentType `json:"data"`
	Stale bool                 `json:"stale"`
}

// CatalogService is the document type registry.
type CatalogService interface {
	// Catalog returns the descriptors of a subject kind in sort order. When the database cannot
	// be read it falls back to the last snapshot, then to the built-in catalog, marking the
	// result stale.
	Catalog(ctx context.Context, kind model.SubjectKind) (*CatalogResult, error)

	// Find returns one descriptor by key, or errs.ErrNotFound.
	Find(ctx context.Context, key string) (*model.DocumentType, error)

	// Seed inserts the built-in catalogs for every subject kind, keeping stored rows.
	Seed(ctx context.Context) error
}

type catalogService struct {
	repo  repository.DocumentTypeRepository
	snap  cache.Snapshot
	opts  options
	group singleflight.Group
}

func NewCatalogService(repo repository.DocumentTypeRepository, snap cache.Snapshot, opts ...Option) CatalogService {
	return &catalogService{repo: repo, snap: snap, opts: buildOptions(opts)}
}

func (s *catalogService) Catalog(ctx context.Context, kind model.SubjectKind) (*CatalogResult, error) {
	if !kind.Valid() {
		return nil, errs.Invalid("kind", "must be doctor or business")
	}
	ctx, span := tracer.Start(ctx, "CatalogService.Catalog")
	defer span.End()

	// The load is shared by every waiter, so one caller going away must not cancel it.
	v, err, _ := s.group.Do(string(kind), func() (any, error) {
		return s.repo.List(context.WithoutCancel(ctx), kind)
	})
	if err == nil {
		types := s.valid(v.([]model.DocumentType))
		if len(types) == 0 {
			// Nothing seeded yet; the built-in catalog is authoritative.
			return &CatalogResult{Types: compliance.DefaultCatalog(kind)}, nil
		}
		if err := s.snap.SaveCatalog(ctx, kind, types); err != nil {
			s.opts.log.WarnContext(ctx, "catalog snapshot save failed", "kind", kind, "error", err)
		}
		return &CatalogResult{Types: types}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	s.opts.log.WarnContext(ctx, "catalog load failed, using fallback", "kind", kind, "error", err)
	if types, snapErr := s.snap.LoadCatalog(ctx, kind); snapErr == nil && len(types) > 0 {
		s.opts.metrics.StaleRead("snapshot")
		return &CatalogResult{Types: types, Stale: true}, nil
	}
	s.opts.metrics.StaleRead("builtin")
	return &CatalogResult{Types: compliance.DefaultCatalog(kind), Stale: true}, nil
}

// valid drops stored descriptors that break the catalog invariants.
func (s *catalogService) valid(types []model.DocumentType) []model.DocumentType {
	out := make([]model.DocumentType, 0, len(types))
	for _, dt := range types {
		norm, err := compliance.ValidateDescriptor(dt)
		if err != nil {
			s.opts.log.Error("invalid document type skipped", "key", dt.Key, "error", err)
			continue
		}
		out = append(out, norm)
	}
	return out
}

func (s *catalogService) Find(ctx context.Context, key string) (*model.DocumentType, error) {
	if key == "" {
		return nil, errs.Invalid("document_type_key", "must not be empty")
	}
	dt, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("document type %q: %w", key, errs.ErrNotFound)
		}
		return nil, errs.Transient("find document type", err)
	}
	norm, err := compliance.ValidateDescriptor(*dt)
	if err != nil {
		return nil, fmt.Errorf("document type %q is misconfigured: %v", key, err)
	}
	return &norm, nil
}

func (s *catalogService) Seed(ctx context.Context) error {
	for _, kind := range []model.SubjectKind{model.SubjectDoctor, model.SubjectBusiness} {
		added, err := s.repo.Seed(ctx, compliance.DefaultCatalog(kind))
		if err != nil {
			return fmt.Errorf("seed %s catalog: %w", kind, err)
		}
		s.opts.log.InfoContext(ctx, "catalog seeded", "component", "catalog", "kind", kind, "added", added)
	}
	return nil
}
