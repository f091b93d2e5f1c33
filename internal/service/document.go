package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"compliancedocs/internal/cache"
	"compliancedocs/internal/compliance"
	"compliancedocs/internal/errs"
	"compliancedocs/internal/events"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
	"compliancedocs/internal/storage"
)

// RecordListResult is the list of a subject's current records.
type RecordListResult struct {
	Items []model.DocumentRecord `json:"data"`
	Stale bool                   `json:"stale"`
}

// UploadInput describes one uploaded file.
type UploadInput struct {
	SubjectID       string
	DocumentTypeKey string
	// Kind, when set, must match the document type's subject kind.
	Kind        model.SubjectKind
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
	IssueDate   *time.Time
	Actor       string
}

// VerifyInput is an admin review decision on one record id.
type VerifyInput struct {
	RecordID string
	Status   model.VerificationStatus
	Notes    string
	Reviewer string
}

// DownloadLink is a time-limited URL to a stored file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DocumentService defines the use cases for compliance documents.
type DocumentService interface {
	// Overview derives every catalog document's status for a subject at the current instant.
	Overview(ctx context.Context, subjectID string, kind model.SubjectKind) (*model.Overview, error)

	// ListCurrent returns the subject's current records.
	ListCurrent(ctx context.Context, subjectID string) (*RecordListResult, error)

	// Get returns a record by id, current or superseded.
	Get(ctx context.Context, id string) (*model.DocumentRecord, error)

	// Upload stores the file, computes its expiry and makes it the current record for its type.
	// The stored object is removed again if the record cannot be saved.
	Upload(ctx context.Context, in UploadInput) (*model.DocumentRecord, error)

	// Verify applies a review decision. It fails with errs.ErrConflict when the record was
	// superseded or deleted since the reviewer loaded it.
	Verify(ctx context.Context, in VerifyInput) (*model.DocumentRecord, error)

	// Delete removes the current record; the document type reverts to missing.
	Delete(ctx context.Context, id, actor string) error

	// DownloadURL returns a presigned URL for the current record's file.
	DownloadURL(ctx context.Context, id string) (*DownloadLink, error)
}

type documentService struct {
	repo    repository.DocumentRepository
	refs    repository.ReferenceRepository
	catalog CatalogService
	store   storage.Storage
	snap    cache.Snapshot
	pub     events.Publisher
	opts    options
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	repo repository.DocumentRepository,
	refs repository.ReferenceRepository,
	catalog CatalogService,
	store storage.Storage,
	snap cache.Snapshot,
	pub events.Publisher,
	opts ...Option,
) DocumentService {
	return &documentService{
		repo:    repo,
		refs:    refs,
		catalog: catalog,
		store:   store,
		snap:    snap,
		pub:     pub,
		opts:    buildOptions(opts),
	}
}

func (s *documentService) Overview(ctx context.Context, subjectID string, kind model.SubjectKind) (*model.Overview, error) {
	if subjectID == "" {
		return nil, errs.Invalid("subject_id", "must not be empty")
	}
	if !kind.Valid() {
		return nil, errs.Invalid("kind", "must be doctor or business")
	}
	ctx, span := tracer.Start(ctx, "DocumentService.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("subject.id", subjectID), attribute.String("subject.kind", string(kind)))

	now := s.opts.now()
	var (
		catalog *CatalogResult
		records []model.DocumentRecord
		refs    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.catalog.Catalog(gctx, kind)
		catalog = c
		return err
	})
	g.Go(func() error {
		r, err := s.repo.ListCurrent(gctx, subjectID)
		records = r
		return err
	})
	if kind == model.SubjectDoctor {
		g.Go(func() error {
			n, err := s.refs.Count(gctx, subjectID)
			refs = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return s.overviewFallback(ctx, subjectID, kind, now, err)
	}

	ov := &model.Overview{
		SubjectID: subjectID,
		Kind:      kind,
		Documents: project(catalog.Types, records, now),
		Stale:     catalog.Stale,
		AsOf:      now,
	}
	if kind == model.SubjectDoctor {
		ov.References = &model.ReferenceSummary{Status: model.ReferenceStatusOf(refs), Count: refs}
	}
	if !ov.Stale {
		if err := s.snap.SaveOverview(ctx, *ov); err != nil {
			s.opts.log.WarnContext(ctx, "overview snapshot save failed", "subject_id", subjectID, "error", err)
		}
	}
	return ov, nil
}

// overviewFallback serves the last snapshot, re-deriving every status against now.
func (s *documentService) overviewFallback(ctx context.Context, subjectID string, kind model.SubjectKind, now time.Time, cause error) (*model.Overview, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	snap, err := s.snap.LoadOverview(ctx, subjectID)
	if err != nil || snap.Kind != kind {
		return nil, errs.Transient("load documents", cause)
	}
	s.opts.log.WarnContext(ctx, "serving stale overview", "subject_id", subjectID, "as_of", snap.AsOf, "error", cause)
	s.opts.metrics.StaleRead("snapshot")

	types := make([]model.DocumentType, len(snap.Documents))
	var records []model.DocumentRecord
	for i, d := range snap.Documents {
		types[i] = d.Type
		if d.Record != nil {
			records = append(records, *d.Record)
		}
	}
	snap.Documents = project(types, records, now)
	snap.Stale = true
	return snap, nil
}

// project pairs each catalog type with the subject's current record of that type.
// Records of types no longer in the catalog are left out.
func project(types []model.DocumentType, records []model.DocumentRecord, now time.Time) []model.DocumentView {
	byType := make(map[string]*model.DocumentRecord, len(records))
	for i := range records {
		byType[records[i].DocumentTypeKey] = &records[i]
	}

	views := make([]model.DocumentView, 0, len(types))
	for _, dt := range types {
		rec := byType[dt.Key]
		ev := compliance.Evaluate(rec, dt, now)
		views = append(views, model.DocumentView{
			Type:            dt,
			Record:          rec,
			Status:          ev.Status,
			ExpiryDate:      ev.ExpiryDate,
			DaysUntilExpiry: ev.DaysUntilExpiry,
			CanReview:       rec != nil && compliance.CanReview(ev.Status),
		})
	}
	return views
}

func (s *documentService) ListCurrent(ctx context.Context, subjectID string) (*RecordListResult, error) {
	if subjectID == "" {
		return nil, errs.Invalid("subject_id", "must not be empty")
	}
	records, err := s.repo.ListCurrent(ctx, subjectID)
	if err == nil {
		return &RecordListResult{Items: records}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	snap, snapErr := s.snap.LoadOverview(ctx, subjectID)
	if snapErr != nil {
		return nil, errs.Transient("list documents", err)
	}
	s.opts.log.WarnContext(ctx, "serving stale records", "subject_id", subjectID, "error", err)
	s.opts.metrics.StaleRead("snapshot")
	items := make([]model.DocumentRecord, 0, len(snap.Documents))
	for _, d := range snap.Documents {
		if d.Record != nil {
			items = append(items, *d.Record)
		}
	}
	return &RecordListResult{Items: items, Stale: true}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.DocumentRecord, error) {
	if id == "" {
		return nil, errs.Invalid("id", "must not be empty")
	}
	rec, _, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.backendErr("find document", err)
	}
	return rec, nil
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload")
	defer span.End()

	if in.Content == nil {
		return nil, errs.Invalid("file", "is required")
	}
	if in.SubjectID == "" {
		return nil, errs.Invalid("subject_id", "must not be empty")
	}
	dt, err := s.catalog.Find(ctx, in.DocumentTypeKey)
	if err != nil {
		return nil, err
	}
	if in.Kind != "" && dt.SubjectKind != in.Kind {
		return nil, errs.Invalid("document_type_key", fmt.Sprintf("%s is not a %s document", dt.Key, in.Kind))
	}
	if !compliance.AcceptsFile(*dt, in.FileName) {
		return nil, errs.Invalid("file", "format must be one of "+strings.Join(dt.AcceptedFormats, ", "))
	}
	if s.opts.maxUploadBytes > 0 && in.Size > s.opts.maxUploadBytes {
		return nil, errs.Invalid("file", fmt.Sprintf("must not exceed %d bytes", s.opts.maxUploadBytes))
	}

	now := s.opts.now()
	var issue, expiry *time.Time
	if in.IssueDate != nil {
		d := dateOnly(*in.IssueDate)
		if d.After(now) {
			return nil, errs.Invalid("issue_date", "must not be in the future")
		}
		issue = &d
	}
	if dt.AutoExpiry {
		if issue == nil {
			return nil, errs.Invalid("issue_date", "is required for "+dt.Name)
		}
		e := compliance.CalculateExpiry(*issue, dt.ValidityYears)
		expiry = &e
	}

	id := uuid.NewString()
	key := storage.DocumentKey(in.SubjectID, dt.Key, id, in.FileName)
	objInfo, err := s.store.Put(ctx, key, in.Content, storage.PutObjectOptions{
		Size:         in.Size,
		ContentType:  in.ContentType,
		OriginalName: in.FileName,
		SubjectID:    in.SubjectID,
		TypeKey:      dt.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec := &model.DocumentRecord{
		ID:                 id,
		SubjectID:          in.SubjectID,
		DocumentTypeKey:    dt.Key,
		OriginalFileName:   in.FileName,
		FileSize:           objInfo.Size,
		FileType:           in.ContentType,
		StoragePath:        objInfo.Key,
		IssueDate:          issue,
		ExpiryDate:         expiry,
		UploadedAt:         now,
		VerificationStatus: model.VerificationPending,
	}
	stored, previous, err := s.repo.Replace(ctx, rec)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	ev := events.DocumentEvent{
		Type:               events.DocumentUploaded,
		RecordID:           stored.ID,
		SubjectID:          stored.SubjectID,
		DocumentTypeKey:    stored.DocumentTypeKey,
		VerificationStatus: stored.VerificationStatus,
		Actor:              in.Actor,
		OccurredAt:         now,
	}
	if previous != nil {
		ev.PreviousRecordID = previous.ID
	}
	s.publish(ctx, ev)
	s.opts.metrics.Upload(dt.Key)
	s.opts.log.InfoContext(ctx, "document uploaded",
		"subject_id", stored.SubjectID,
		"document_type", stored.DocumentTypeKey,
		"record_id", stored.ID,
		"previous_record_id", ev.PreviousRecordID,
	)
	return stored, nil
}

func (s *documentService) Verify(ctx context.Context, in VerifyInput) (*model.DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Verify")
	defer span.End()

	if in.RecordID == "" {
		return nil, errs.Invalid("id", "must not be empty")
	}
	event, ok := compliance.EventFor(in.Status)
	if !ok {
		return nil, errs.Invalid("verification_status", "must be verified or rejected")
	}

	rec, current, err := s.repo.FindByID(ctx, in.RecordID)
	if err != nil {
		return nil, s.backendErr("find document", err)
	}
	if !current {
		s.opts.metrics.Conflict()
		return nil, fmt.Errorf("record %s: %w", in.RecordID, errs.ErrConflict)
	}

	dt, err := s.catalog.Find(ctx, rec.DocumentTypeKey)
	if err != nil {
		return nil, err
	}
	now := s.opts.now()
	if st := compliance.DeriveStatus(rec, *dt, now); !compliance.CanReview(st) {
		return nil, errs.Invalid("id", fmt.Sprintf("%s documents cannot be reviewed", st))
	}
	next, err := compliance.Transition(rec.VerificationStatus, event)
	if err != nil {
		return nil, errs.Invalid("verification_status", err.Error())
	}

	updated, err := s.repo.UpdateVerification(ctx, in.RecordID, repository.VerificationUpdate{
		Status:     next,
		Notes:      strings.TrimSpace(in.Notes),
		ReviewedBy: in.Reviewer,
		ReviewedAt: now,
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			s.opts.metrics.Conflict()
		}
		return nil, s.backendErr("update verification", err)
	}

	evType := events.DocumentVerified
	if next == model.VerificationRejected {
		evType = events.DocumentRejected
	}
	s.publish(ctx, events.DocumentEvent{
		Type:               evType,
		RecordID:           updated.ID,
		SubjectID:          updated.SubjectID,
		DocumentTypeKey:    updated.DocumentTypeKey,
		VerificationStatus: next,
		Notes:              updated.VerificationNotes,
		Actor:              in.Reviewer,
		OccurredAt:         now,
	})
	s.opts.metrics.Verification(string(next))
	s.opts.log.InfoContext(ctx, "document reviewed",
		"record_id", updated.ID,
		"subject_id", updated.SubjectID,
		"verification_status", next,
		"reviewer", in.Reviewer,
	)
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, id, actor string) error {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete")
	defer span.End()

	if id == "" {
		return errs.Invalid("id", "must not be empty")
	}
	rec, current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.backendErr("find document", err)
	}
	if !current {
		s.opts.metrics.Conflict()
		return fmt.Errorf("record %s: %w", id, errs.ErrConflict)
	}

	now := s.opts.now()
	if err := s.repo.Delete(ctx, id, now); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			s.opts.metrics.Conflict()
		}
		return s.backendErr("delete document", err)
	}
	// The record is gone either way; a leftover object is only logged.
	if err := s.store.Delete(ctx, rec.StoragePath); err != nil {
		s.opts.log.WarnContext(ctx, "stored object not removed", "record_id", id, "key", rec.StoragePath, "error", err)
	}

	s.publish(ctx, events.DocumentEvent{
		Type:            events.DocumentDeleted,
		RecordID:        rec.ID,
		SubjectID:       rec.SubjectID,
		DocumentTypeKey: rec.DocumentTypeKey,
		Actor:           actor,
		OccurredAt:      now,
	})
	s.opts.log.InfoContext(ctx, "document deleted", "record_id", id, "subject_id", rec.SubjectID)
	return nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (*DownloadLink, error) {
	if id == "" {
		return nil, errs.Invalid("id", "must not be empty")
	}
	rec, current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.backendErr("find document", err)
	}
	if !current {
		return nil, fmt.Errorf("record %s: %w", id, errs.ErrConflict)
	}
	url, err := s.store.PresignGet(ctx, rec.StoragePath, s.opts.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &DownloadLink{URL: url, ExpiresAt: s.opts.now().Add(s.opts.presignTTL)}, nil
}

func (s *documentService) publish(ctx context.Context, ev events.DocumentEvent) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.opts.log.ErrorContext(ctx, "document event not published", "type", ev.Type, "record_id", ev.RecordID, "error", err)
	}
}

// backendErr passes domain sentinels through and marks anything else transient.
func (s *documentService) backendErr(op string, err error) error {
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrConflict) || errors.Is(err, errs.ErrValidation) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errs.Transient(op, err)
}

// dateOnly drops the time of day, keeping the calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
