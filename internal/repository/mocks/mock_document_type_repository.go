package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDocumentTypeRepository struct {
	mock.Mock
}

func (m *MockDocumentTypeRepository) List(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByKey(ctx context.Context, key string) (*model.DocumentType, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Seed(ctx context.Context, types []model.DocumentType) (int, error) {
	args := m.Called(ctx, types)
	return args.Int(0), args.Error(1)
}
