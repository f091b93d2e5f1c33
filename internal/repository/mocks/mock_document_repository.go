package mocks

import (
	"context"
	"time"

	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ListCurrent(ctx context.Context, subjectID string) ([]model.DocumentRecord, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.DocumentRecord, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.DocumentRecord), args.Bool(1), args.Error(2)
}

func (m *MockDocumentRepository) Replace(ctx context.Context, rec *model.DocumentRecord) (*model.DocumentRecord, *model.DocumentRecord, error) {
	args := m.Called(ctx, rec)
	var stored, previous *model.DocumentRecord
	if v := args.Get(0); v != nil {
		stored = v.(*model.DocumentRecord)
	}
	if v := args.Get(1); v != nil {
		previous = v.(*model.DocumentRecord)
	}
	return stored, previous, args.Error(2)
}

func (m *MockDocumentRepository) UpdateVerification(ctx context.Context, id string, u repository.VerificationUpdate) (*model.DocumentRecord, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListPending(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.DocumentRecord], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentRecord]), args.Error(1)
}
