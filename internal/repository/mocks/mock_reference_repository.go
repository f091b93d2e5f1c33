package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) List(ctx context.Context, subjectID string) ([]model.Reference, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reference), args.Error(1)
}

func (m *MockReferenceRepository) Count(ctx context.Context, subjectID string) (int, error) {
	args := m.Called(ctx, subjectID)
	return args.Int(0), args.Error(1)
}

func (m *MockReferenceRepository) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	args := m.Called(ctx, ref)
	if f, ok := args.Get(0).(func(context.Context, *model.Reference) *model.Reference); ok {
		return f(ctx, ref), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reference), args.Error(1)
}

func (m *MockReferenceRepository) Delete(ctx context.Context, subjectID, id string) error {
	args := m.Called(ctx, subjectID, id)
	return args.Error(0)
}
