package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sumire/issuetracker/internal/domain"
)

// IssueStore defines the issue data access interface consumed by IssueService.
type IssueStore interface {
	List(ctx context.Context, project string, filter domain.IssueFilter) ([]domain.Issue, error)
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, project, id string, patch domain.IssuePatch, updatedOn time.Time) error
	Delete(ctx context.Context, project, id string) error
}

// Validator checks struct tags and reports the first failure as *domain.ValidationError.
type Validator interface {
	Validate(i any) error
}

// CreateIssueInput carries the fields accepted when opening an issue.
type CreateIssueInput struct {
	IssueTitle string `json:"issue_title" validate:"required"`
	IssueText  string `json:"issue_text" validate:"required"`
	CreatedBy  string `json:"created_by" validate:"required"`
	AssignedTo string `json:"assigned_to"`
	StatusText string `json:"status_text"`
}

// UpdateIssueInput carries a raw partial update. Fields maps every
// submitted key to its string form; absent keys are not in the map.
type UpdateIssueInput struct {
	ID     string
	Fields map[domain.Field]string
}

// IssueService handles issue lifecycle logic.
type IssueService struct {
	store     IssueStore
	validator Validator
	now       func() time.Time
}

// Option configures an IssueService.
type Option func(*IssueService)

// WithClock overrides the time source used for created_on and updated_on.
func WithClock(now func() time.Time) Option {
	return func(s *IssueService) { s.now = now }
}

// NewIssueService creates a new IssueService.
func NewIssueService(store IssueStore, v Validator, opts ...Option) *IssueService {
	s := &IssueService{
		store:     store,
		validator: v,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the project's issues matching filter in insertion order.
func (s *IssueService) List(ctx context.Context, project string, filter domain.IssueFilter) ([]domain.Issue, error) {
	issues, err := s.store.List(ctx, project, filter)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// Create validates in and stores a new open issue in project.
func (s *IssueService) Create(ctx context.Context, project string, in CreateIssueInput) (*domain.Issue, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	issue := domain.NewIssue(project, in.IssueTitle, in.IssueText, in.CreatedBy,
		in.AssignedTo, in.StatusText, s.now())
	if err := s.store.Create(ctx, &issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	slog.Info("issue created", "project", project, "id", issue.ID)
	return &issue, nil
}

// Update applies the accepted fields of in. Field validation runs before
// the existence lookup, so an empty update reports ErrNoUpdateFields even
// for an unknown id.
func (s *IssueService) Update(ctx context.Context, project string, in UpdateIssueInput) error {
	if in.ID == "" {
		return domain.ErrMissingID
	}

	patch, err := domain.ParsePatch(in.Fields)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, project, in.ID, patch, s.now()); err != nil {
		return err
	}

	slog.Info("issue updated", "project", project, "id", in.ID)
	return nil
}

// Delete removes the issue with id from project.
func (s *IssueService) Delete(ctx context.Context, project, id string) error {
	if id == "" {
		return domain.ErrMissingID
	}

	if err := s.store.Delete(ctx, project, id); err != nil {
		return err
	}

	slog.Info("issue deleted", "project", project, "id", id)
	return nil
}
