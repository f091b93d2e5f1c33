package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

func feed(args mock.Arguments) (*model.NotificationFeed, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationFeed), args.Error(1)
}

func (m *MockNotificationService) Feed(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID, subjectID, kind))
}

func (m *MockNotificationService) MarkRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind, id string) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID, subjectID, kind, id))
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, viewerID, subjectID string, kind model.SubjectKind) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID, subjectID, kind))
}

func (m *MockNotificationService) AdminFeed(ctx context.Context, viewerID string) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID))
}

func (m *MockNotificationService) AdminMarkRead(ctx context.Context, viewerID, id string) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID, id))
}

func (m *MockNotificationService) AdminMarkAllRead(ctx context.Context, viewerID string) (*model.NotificationFeed, error) {
	return feed(m.Called(ctx, viewerID))
}
