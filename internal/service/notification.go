package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"compliancedocs/internal/compliance"
	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/notification"
	"compliancedocs/internal/repository"
)

// adminFeedLimit caps the pending records loaded into one admin feed.
const adminFeedLimit = 200

// NotificationService builds notification feeds and stores per-viewer read state.
type NotificationService interface {
	// Feed returns the subject's ranked feed with the viewer's read flags applied.
	Feed(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error)

	// MarkRead marks one notification of the subject's feed as read. It is idempotent and
	// returns errs.ErrNotFound for ids that are not in the current feed.
	MarkRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind, id string) (*model.NotificationFeed, error)

	// MarkAllRead marks every notification in the subject's current feed as read.
	MarkAllRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error)

	// AdminFeed returns the review queue: one actionable item per pending record.
	AdminFeed(ctx context.Context, viewerID string) (*model.NotificationFeed, error)

	AdminMarkRead(ctx context.Context, viewerID, id string) (*model.NotificationFeed, error)
	AdminMarkAllRead(ctx context.Context, viewerID string) (*model.NotificationFeed, error)
}

type notificationService struct {
	docs    DocumentService
	records repository.DocumentRepository
	catalog CatalogService
	reads   repository.NotificationReadRepository
	opts    options

	mu        sync.Mutex
	lastAdmin []model.Notification
}

func NewNotificationService(
	docs DocumentService,
	records repository.DocumentRepository,
	catalog CatalogService,
	reads repository.NotificationReadRepository,
	opts ...Option,
) NotificationService {
	return &notificationService{
		docs:    docs,
		records: records,
		catalog: catalog,
		reads:   reads,
		opts:    buildOptions(opts),
	}
}

func (s *notificationService) Feed(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.Feed")
	defer span.End()

	items, stale, err := s.subjectFeed(ctx, subjectID, kind)
	if err != nil {
		return nil, err
	}
	return s.withReadState(ctx, viewerID, items, stale), nil
}

func (s *notificationService) MarkRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind, id string) (*model.NotificationFeed, error) {
	items, stale, err := s.subjectFeed(ctx, subjectID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.markRead(ctx, viewerID, items, id); err != nil {
		return nil, err
	}
	return s.withReadState(ctx, viewerID, items, stale), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error) {
	items, stale, err := s.subjectFeed(ctx, subjectID, kind)
	if err != nil {
		return nil, err
	}
	return s.markAll(ctx, viewerID, items, stale)
}

func (s *notificationService) AdminFeed(ctx context.Context, viewerID string) (*model.NotificationFeed, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.AdminFeed")
	defer span.End()

	items, stale, err := s.adminFeed(ctx)
	if err != nil {
		return nil, err
	}
	return s.withReadState(ctx, viewerID, items, stale), nil
}

func (s *notificationService) AdminMarkRead(ctx context.Context, viewerID, id string) (*model.NotificationFeed, error) {
	items, stale, err := s.adminFeed(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markRead(ctx, viewerID, items, id); err != nil {
		return nil, err
	}
	return s.withReadState(ctx, viewerID, items, stale), nil
}

func (s *notificationService) AdminMarkAllRead(ctx context.Context, viewerID string) (*model.NotificationFeed, error) {
	items, stale, err := s.adminFeed(ctx)
	if err != nil {
		return nil, err
	}
	return s.markAll(ctx, viewerID, items, stale)
}

// subjectFeed regenerates the subject's notifications from its overview.
func (s *notificationService) subjectFeed(ctx context.Context, subjectID string, kind model.SubjectKind) ([]model.Notification, bool, error) {
	ov, err := s.docs.Overview(ctx, subjectID, kind)
	if err != nil {
		return nil, false, err
	}

	entries := make([]notification.Entry, 0, len(ov.Documents))
	for _, d := range ov.Documents {
		entries = append(entries, notification.Entry{
			Type:   d.Type,
			Record: d.Record,
			Evaluation: compliance.Evaluation{
				Status:          d.Status,
				ExpiryDate:      d.ExpiryDate,
				DaysUntilExpiry: d.DaysUntilExpiry,
			},
		})
	}
	subject := notification.Subject{ID: ov.SubjectID, Kind: ov.Kind}
	if ov.References != nil {
		subject.References = *ov.References
	}
	return notification.Build(subject, entries, s.opts.now()), ov.Stale, nil
}

// adminFeed builds the review queue, falling back to the last queue built by this process.
func (s *notificationService) adminFeed(ctx context.Context) ([]model.Notification, bool, error) {
	page, err := s.records.ListPending(ctx, repository.PageQuery{Limit: adminFeedLimit})
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		s.mu.Lock()
		last := slices.Clone(s.lastAdmin)
		s.mu.Unlock()
		if last == nil {
			return nil, false, errs.Transient("list pending documents", err)
		}
		s.opts.log.WarnContext(ctx, "serving stale review queue", "error", err)
		s.opts.metrics.StaleRead("snapshot")
		return last, true, nil
	}

	types := make(map[string]model.DocumentType)
	for _, kind := range []model.SubjectKind{model.SubjectDoctor, model.SubjectBusiness} {
		res, err := s.catalog.Catalog(ctx, kind)
		if err != nil {
			return nil, false, err
		}
		for _, dt := range res.Types {
			types[dt.Key] = dt
		}
	}

	pending := make([]notification.PendingReview, 0, len(page.Items))
	for _, rec := range page.Items {
		dt, ok := types[rec.DocumentTypeKey]
		if !ok {
			dt = model.DocumentType{Key: rec.DocumentTypeKey, Name: rec.DocumentTypeKey}
		}
		pending = append(pending, notification.PendingReview{Record: rec, Type: dt})
	}
	items := notification.BuildReviewQueue(pending)

	s.mu.Lock()
	s.lastAdmin = slices.Clone(items)
	s.mu.Unlock()
	return items, false, nil
}

// withReadState overlays read flags. If they cannot be loaded every item is shown unread
// and the feed is marked stale.
func (s *notificationService) withReadState(ctx context.Context, viewerID string, items []model.Notification, stale bool) *model.NotificationFeed {
	read, err := s.reads.ReadSet(ctx, viewerID, notification.IDs(items))
	if err != nil {
		s.opts.log.WarnContext(ctx, "read state unavailable", "viewer_id", viewerID, "error", err)
		read, stale = nil, true
	}
	items = notification.ApplyRead(items, read)
	return &model.NotificationFeed{
		Notifications: items,
		Summary:       notification.Summarize(items),
		Stale:         stale,
	}
}

func (s *notificationService) markRead(ctx context.Context, viewerID string, items []model.Notification, id string) error {
	if id == "" {
		return errs.Invalid("id", "must not be empty")
	}
	if !slices.ContainsFunc(items, func(n model.Notification) bool { return n.ID == id }) {
		return fmt.Errorf("notification %s: %w", id, errs.ErrNotFound)
	}
	if err := s.reads.MarkRead(ctx, viewerID, id); err != nil {
		return errs.Transient("mark notification read", err)
	}
	return nil
}

func (s *notificationService) markAll(ctx context.Context, viewerID string, items []model.Notification, stale bool) (*model.NotificationFeed, error) {
	if err := s.reads.MarkRead(ctx, viewerID, notification.IDs(items)...); err != nil {
		return nil, errs.Transient("mark notifications read", err)
	}
	for i := range items {
		items[i].Read = true
	}
	return &model.NotificationFeed{
		Notifications: items,
		Summary:       notification.Summarize(items),
		Stale:         stale,
	}, nil
}
