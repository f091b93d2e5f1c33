package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Catalog(ctx context.Context, kind model.SubjectKind) (*service.CatalogResult, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogResult), args.Error(1)
}

func (m *MockCatalogService) Find(ctx context.Context, key string) (*model.DocumentType, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockCatalogService) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
