package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

// ReferenceListResult lists a subject's professional references with their status.
type ReferenceListResult struct {
	Items  []model.Reference     `json:"data"`
	Status model.ReferenceStatus `json:"status"`
	Count  int                   `json:"count"`
}

// ReferenceInput is a new professional reference.
type ReferenceInput struct {
	RefereeName  string `json:"referee_name"`
	RefereeEmail string `json:"referee_email"`
	Relationship string `json:"relationship"`
	Organisation string `json:"organisation"`
}

// ReferenceService manages professional references. They carry no file and no expiry.
type ReferenceService interface {
	List(ctx context.Context, subjectID string) (*ReferenceListResult, error)
	Add(ctx context.Context, subjectID string, in ReferenceInput) (*model.Reference, error)
	Delete(ctx context.Context, subjectID, id string) error
}

type referenceService struct {
	repo repository.ReferenceRepository
	opts options
}

func NewReferenceService(repo repository.ReferenceRepository, opts ...Option) ReferenceService {
	return &referenceService{repo: repo, opts: buildOptions(opts)}
}

func (s *referenceService) List(ctx context.Context, subjectID string) (*ReferenceListResult, error) {
	if subjectID == "" {
		return nil, errs.Invalid("subject_id", "must not be empty")
	}
	items, err := s.repo.List(ctx, subjectID)
	if err != nil {
		return nil, errs.Transient("list references", err)
	}
	return &ReferenceListResult{
		Items:  items,
		Status: model.ReferenceStatusOf(len(items)),
		Count:  len(items),
	}, nil
}

func (s *referenceService) Add(ctx context.Context, subjectID string, in ReferenceInput) (*model.Reference, error) {
	if subjectID == "" {
		return nil, errs.Invalid("subject_id", "must not be empty")
	}
	name := strings.TrimSpace(in.RefereeName)
	if name == "" {
		return nil, errs.Invalid("referee_name", "must not be empty")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.RefereeEmail))
	if err != nil {
		return nil, errs.Invalid("referee_email", "must be a valid email address")
	}
	relationship := strings.TrimSpace(in.Relationship)
	if relationship == "" {
		return nil, errs.Invalid("relationship", "must not be empty")
	}

	ref, err := s.repo.Create(ctx, &model.Reference{
		ID:           uuid.NewString(),
		SubjectID:    subjectID,
		RefereeName:  name,
		RefereeEmail: strings.ToLower(addr.Address),
		Relationship: relationship,
		Organisation: strings.TrimSpace(in.Organisation),
		CreatedAt:    s.opts.now().UTC(),
	})
	if err != nil {
		return nil, errs.Transient("create reference", err)
	}
	s.opts.log.InfoContext(ctx, "reference added", "subject_id", subjectID, "reference_id", ref.ID)
	return ref, nil
}

func (s *referenceService) Delete(ctx context.Context, subjectID, id string) error {
	if id == "" {
		return errs.Invalid("id", "must not be empty")
	}
	if err := s.repo.Delete(ctx, subjectID, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("reference %s: %w", id, errs.ErrNotFound)
		}
		return errs.Transient("delete reference", err)
	}
	return nil
}
