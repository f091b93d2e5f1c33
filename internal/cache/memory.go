package cache

import (
	"context"
	"slices"
	"sync"

	"compliancedocs/internal/model"
)

// Memory is an in-process Snapshot used when Redis is not configured.
type Memory struct {
	mu        sync.RWMutex
	overviews map[string]model.Overview
	catalogs  map[model.SubjectKind][]model.DocumentType
}

var _ Snapshot = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		overviews: make(map[string]model.Overview),
		catalogs:  make(map[model.SubjectKind][]model.DocumentType),
	}
}

func (m *Memory) SaveOverview(_ context.Context, ov model.Overview) error {
	ov.Documents = slices.Clone(ov.Documents)
	m.mu.Lock()
	m.overviews[ov.SubjectID] = ov
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadOverview(_ context.Context, subjectID string) (*model.Overview, error) {
	m.mu.RLock()
	ov, ok := m.overviews[subjectID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	ov.Documents = slices.Clone(ov.Documents)
	return &ov, nil
}

func (m *Memory) SaveCatalog(_ context.Context, kind model.SubjectKind, types []model.DocumentType) error {
	m.mu.Lock()
	m.catalogs[kind] = slices.Clone(types)
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadCatalog(_ context.Context, kind model.SubjectKind) ([]model.DocumentType, error) {
	m.mu.RLock()
	types, ok := m.catalogs[kind]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	return slices.Clone(types), nil
}
