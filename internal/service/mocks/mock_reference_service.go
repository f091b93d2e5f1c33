package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) List(ctx context.Context, subjectID string) (*service.ReferenceListResult, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReferenceListResult), args.Error(1)
}

func (m *MockReferenceService) Add(ctx context.Context, subjectID string, in service.ReferenceInput) (*model.Reference, error) {
	args := m.Called(ctx, subjectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reference), args.Error(1)
}

func (m *MockReferenceService) Delete(ctx context.Context, subjectID, id string) error {
	args := m.Called(ctx, subjectID, id)
	return args.Error(0)
}
