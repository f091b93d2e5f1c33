package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"compliancedocs/internal/cache"
	"compliancedocs/internal/compliance"
	"compliancedocs/internal/events"
	"compliancedocs/internal/model"
	repoMocks "compliancedocs/internal/repository/mocks"
	storeMocks "compliancedocs/internal/storage/mocks"
)

var testNow = time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DocumentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.DocumentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	records *repoMocks.MockDocumentRepository
	types   *repoMocks.MockDocumentTypeRepository
	refs    *repoMocks.MockReferenceRepository
	reads   *repoMocks.MockNotificationReadRepository
	store   *storeMocks.MockStorage
	snap    *cache.Memory
	pub     *recordingPublisher
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		records: new(repoMocks.MockDocumentRepository),
		types:   new(repoMocks.MockDocumentTypeRepository),
		refs:    new(repoMocks.MockReferenceRepository),
		reads:   new(repoMocks.MockNotificationReadRepository),
		store:   new(storeMocks.MockStorage),
		snap:    cache.NewMemory(),
		pub:     &recordingPublisher{},
		now:     testNow,
	}
}

func (f *fixture) options() []Option {
	return []Option{
		WithClock(func() time.Time { return f.now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithPresignTTL(10 * time.Minute),
		WithMaxUploadBytes(1 << 20),
	}
}

func (f *fixture) catalog() CatalogService {
	return NewCatalogService(f.types, f.snap, f.options()...)
}

func (f *fixture) documents() DocumentService {
	return NewDocumentService(f.records, f.refs, f.catalog(), f.store, f.snap, f.pub, f.options()...)
}

// builtin returns one descriptor of the built-in catalogs by key.
func builtin(key string) model.DocumentType {
	for _, kind := range []model.SubjectKind{model.SubjectDoctor, model.SubjectBusiness} {
		for _, dt := range compliance.DefaultCatalog(kind) {
			if dt.Key == key {
				return dt
			}
		}
	}
	panic("unknown built-in document type " + key)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
