package domain

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssue_Defaults(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	issue := NewIssue("apitest", "T", "X", "U", "", "", now)

	assert.True(t, issue.Open)
	assert.Equal(t, now, issue.CreatedOn)
	assert.Equal(t, issue.CreatedOn, issue.UpdatedOn)
	assert.Empty(t, issue.AssignedTo)
	assert.Empty(t, issue.StatusText)
	assert.Empty(t, issue.ID)
}

func TestParsePatch(t *testing.T) {
	tests := []struct {
		name    string
		values  map[Field]string
		want    IssuePatch
		wantErr error
	}{
		{
			name:    "nothing sent",
			values:  map[Field]string{},
			wantErr: ErrNoUpdateFields,
		},
		{
			name:    "only blank strings",
			values:  map[Field]string{FieldIssueTitle: "   ", FieldStatusText: ""},
			wantErr: ErrNoUpdateFields,
		},
		{
			name:    "open not a boolean",
			values:  map[Field]string{FieldOpen: "yes"},
			wantErr: ErrNoUpdateFields,
		},
		{
			name:    "fields outside allow-list",
			values:  map[Field]string{FieldID: "1", Field("project"): "other"},
			wantErr: ErrNoUpdateFields,
		},
		{
			name:   "trims text",
			values: map[Field]string{FieldIssueText: "  new text "},
			want:   IssuePatch{IssueText: ptr("new text")},
		},
		{
			name:   "open false",
			values: map[Field]string{FieldOpen: "false", FieldAssignedTo: "Joe"},
			want:   IssuePatch{Open: ptr(false), AssignedTo: ptr("Joe")},
		},
		{
			name:   "blank skipped beside valid",
			values: map[Field]string{FieldIssueTitle: "", FieldCreatedBy: "Ann"},
			want:   IssuePatch{CreatedBy: ptr("Ann")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePatch(tt.values)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssuePatch_Apply(t *testing.T) {
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Minute)
	issue := NewIssue("p", "T", "X", "U", "A", "S", created)

	IssuePatch{IssueTitle: ptr("New"), Open: ptr(false)}.Apply(&issue, updated)

	assert.Equal(t, "New", issue.IssueTitle)
	assert.Equal(t, "X", issue.IssueText)
	assert.False(t, issue.Open)
	assert.Equal(t, created, issue.CreatedOn)
	assert.Equal(t, updated, issue.UpdatedOn)
}

func TestParseOpen(t *testing.T) {
	v, err := ParseOpen("true")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = ParseOpen("false")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = ParseOpen("TRUE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseFilter(t *testing.T) {
	f := ParseFilter(url.Values{
		"open":        {"true"},
		"assigned_to": {"Joe"},
		"status_text": {""},
		"unknown":     {"x"},
	})

	require.NotNil(t, f.Open)
	assert.True(t, *f.Open)
	require.NotNil(t, f.AssignedTo)
	assert.Equal(t, "Joe", *f.AssignedTo)
	assert.Nil(t, f.StatusText)

	f = ParseFilter(url.Values{"open": {"nope"}})
	require.NotNil(t, f.Open)
	assert.False(t, *f.Open)
}

func TestIssueFilter_Matches(t *testing.T) {
	issue := NewIssue("p", "T", "X", "U", "Joe", "", time.Now())
	issue.ID = "7"

	assert.True(t, IssueFilter{}.Matches(issue))
	assert.True(t, IssueFilter{ID: ptr("7"), Open: ptr(true)}.Matches(issue))
	assert.True(t, IssueFilter{AssignedTo: ptr("Joe"), CreatedBy: ptr("U")}.Matches(issue))
	assert.False(t, IssueFilter{AssignedTo: ptr("joe")}.Matches(issue))
	assert.False(t, IssueFilter{Open: ptr(false)}.Matches(issue))
	assert.False(t, IssueFilter{StatusText: ptr("In QA")}.Matches(issue))
}

func ptr[T any](v T) *T {
	return &v
}
