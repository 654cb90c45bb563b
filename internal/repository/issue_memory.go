package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sumire/issuetracker/internal/domain"
)

// MemoryIssueStore keeps issues in process memory, grouped by project in
// insertion order. Contents live until the process exits.
type MemoryIssueStore struct {
	mu       sync.RWMutex
	projects map[string][]*domain.Issue
	lastID   uint64
}

// NewMemoryIssueStore creates an empty MemoryIssueStore.
func NewMemoryIssueStore() *MemoryIssueStore {
	return &MemoryIssueStore{projects: make(map[string][]*domain.Issue)}
}

// List returns copies of the project's issues that match filter.
func (s *MemoryIssueStore) List(_ context.Context, project string, filter domain.IssueFilter) ([]domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Issue, 0, len(s.projects[project]))
	for _, issue := range s.projects[project] {
		if filter.Matches(*issue) {
			result = append(result, *issue)
		}
	}
	return result, nil
}

// Create assigns the next id to issue and appends it to its project.
func (s *MemoryIssueStore) Create(_ context.Context, issue *domain.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	issue.ID = strconv.FormatUint(s.lastID, 10)

	stored := *issue
	s.projects[issue.Project] = append(s.projects[issue.Project], &stored)
	return nil
}

// Update applies patch to the issue with id in project.
func (s *MemoryIssueStore) Update(_ context.Context, project, id string, patch domain.IssuePatch, updatedOn time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(project, id)
	if i < 0 {
		return fmt.Errorf("update issue %s/%s: %w", project, id, domain.ErrNotFound)
	}
	patch.Apply(s.projects[project][i], updatedOn)
	return nil
}

// Delete removes the issue with id from project.
func (s *MemoryIssueStore) Delete(_ context.Context, project, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(project, id)
	if i < 0 {
		return fmt.Errorf("delete issue %s/%s: %w", project, id, domain.ErrNotFound)
	}
	issues := s.projects[project]
	s.projects[project] = append(issues[:i], issues[i+1:]...)
	if len(s.projects[project]) == 0 {
		delete(s.projects, project)
	}
	return nil
}

// indexOf must be called with s.mu held.
func (s *MemoryIssueStore) indexOf(project, id string) int {
	for i, issue := range s.projects[project] {
		if issue.ID == id {
			return i
		}
	}
	return -1
}
