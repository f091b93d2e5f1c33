package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockNotificationReadRepository struct {
	mock.Mock
}

func (m *MockNotificationReadRepository) ReadSet(ctx context.Context, viewerID string, ids []string) (map[string]bool, error) {
	args := m.Called(ctx, viewerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockNotificationReadRepository) MarkRead(ctx context.Context, viewerID string, ids ...string) error {
	args := m.Called(ctx, viewerID, ids)
	return args.Error(0)
}
