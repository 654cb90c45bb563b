package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/issuetracker/internal/domain"
)

var testTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *MemoryIssueStore, project, title string) domain.Issue {
	t.Helper()
	issue := domain.NewIssue(project, title, "text", "tester", "", "", testTime)
	require.NoError(t, s.Create(context.Background(), &issue))
	return issue
}

func TestMemoryIssueStore_CreateAssignsIncreasingIDs(t *testing.T) {
	s := NewMemoryIssueStore()

	a := seed(t, s, "alpha", "first")
	b := seed(t, s, "beta", "second")
	c := seed(t, s, "alpha", "third")

	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "2", b.ID)
	assert.Equal(t, "3", c.ID)
}

func TestMemoryIssueStore_ListInsertionOrderPerProject(t *testing.T) {
	s := NewMemoryIssueStore()
	seed(t, s, "alpha", "first")
	seed(t, s, "beta", "other")
	seed(t, s, "alpha", "second")

	issues, err := s.List(context.Background(), "alpha", domain.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "first", issues[0].IssueTitle)
	assert.Equal(t, "second", issues[1].IssueTitle)
}

func TestMemoryIssueStore_ListUnknownProjectIsEmpty(t *testing.T) {
	s := NewMemoryIssueStore()

	issues, err := s.List(context.Background(), "nope", domain.IssueFilter{})
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestMemoryIssueStore_ListFilters(t *testing.T) {
	s := NewMemoryIssueStore()
	ctx := context.Background()
	seed(t, s, "p", "one")
	two := seed(t, s, "p", "two")
	closed := false
	require.NoError(t, s.Update(ctx, "p", two.ID, domain.IssuePatch{Open: &closed}, testTime))

	open := true
	issues, err := s.List(ctx, "p", domain.IssueFilter{Open: &open})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "one", issues[0].IssueTitle)

	title := "two"
	issues, err = s.List(ctx, "p", domain.IssueFilter{IssueTitle: &title})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.False(t, issues[0].Open)
}

func TestMemoryIssueStore_ListReturnsCopies(t *testing.T) {
	s := NewMemoryIssueStore()
	seed(t, s, "p", "original")

	issues, err := s.List(context.Background(), "p", domain.IssueFilter{})
	require.NoError(t, err)
	issues[0].IssueTitle = "mutated"

	issues, err = s.List(context.Background(), "p", domain.IssueFilter{})
	require.NoError(t, err)
	assert.Equal(t, "original", issues[0].IssueTitle)
}

func TestMemoryIssueStore_Update(t *testing.T) {
	s := NewMemoryIssueStore()
	ctx := context.Background()
	issue := seed(t, s, "p", "title")
	later := testTime.Add(time.Hour)
	text := "new"

	require.NoError(t, s.Update(ctx, "p", issue.ID, domain.IssuePatch{IssueText: &text}, later))

	issues, err := s.List(ctx, "p", domain.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "new", issues[0].IssueText)
	assert.Equal(t, testTime, issues[0].CreatedOn)
	assert.Equal(t, later, issues[0].UpdatedOn)
}

func TestMemoryIssueStore_UpdateWrongProjectIsNotFound(t *testing.T) {
	s := NewMemoryIssueStore()
	issue := seed(t, s, "p", "title")
	text := "new"

	err := s.Update(context.Background(), "other", issue.ID, domain.IssuePatch{IssueText: &text}, testTime)
	require.ErrorIs(t, err, domain.ErrNotFound)

	issues, err := s.List(context.Background(), "p", domain.IssueFilter{})
	require.NoError(t, err)
	assert.Equal(t, "text", issues[0].IssueText)
}

func TestMemoryIssueStore_Delete(t *testing.T) {
	s := NewMemoryIssueStore()
	ctx := context.Background()
	a := seed(t, s, "p", "a")
	seed(t, s, "p", "b")

	require.NoError(t, s.Delete(ctx, "p", a.ID))
	require.ErrorIs(t, s.Delete(ctx, "p", a.ID), domain.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "p", "99999"), domain.ErrNotFound)

	issues, err := s.List(ctx, "p", domain.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "b", issues[0].IssueTitle)
}

func TestMemoryIssueStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := NewMemoryIssueStore()
	a := seed(t, s, "p", "a")
	require.NoError(t, s.Delete(context.Background(), "p", a.ID))

	b := seed(t, s, "p", "b")
	assert.Equal(t, "2", b.ID)
}

func TestMemoryIssueStore_ConcurrentCreate(t *testing.T) {
	s := NewMemoryIssueStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issue := domain.NewIssue("p", "t", "x", "u", "", "", testTime)
			assert.NoError(t, s.Create(ctx, &issue))
		}()
	}
	wg.Wait()

	issues, err := s.List(ctx, "p", domain.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 50)

	seen := make(map[string]bool)
	for _, issue := range issues {
		assert.False(t, seen[issue.ID], "duplicate id %s", issue.ID)
		seen[issue.ID] = true
	}
}
