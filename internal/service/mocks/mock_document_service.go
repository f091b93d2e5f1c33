package mocks

import (
	"context"

	"compliancedocs/internal/model"
	"compliancedocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Overview(ctx context.Context, subjectID string, kind model.SubjectKind) (*model.Overview, error) {
	args := m.Called(ctx, subjectID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Overview), args.Error(1)
}

func (m *MockDocumentService) ListCurrent(ctx context.Context, subjectID string) (*service.RecordListResult, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput) (*model.DocumentRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Verify(ctx context.Context, in service.VerifyInput) (*model.DocumentRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id, actor string) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, id string) (*service.DownloadLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadLink), args.Error(1)
}
