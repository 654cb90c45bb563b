package domain

import "net/url"

// IssueFilter is a set of exact-match constraints. Nil fields are unconstrained.
type IssueFilter struct {
	ID         *string
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// ParseFilter reads filters from query parameters. Empty values and keys that
// are not filterable fields are dropped. Any open value other than "true"
// filters for closed issues.
func ParseFilter(query url.Values) IssueFilter {
	var f IssueFilter
	for key, values := range query {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		v := values[0]
		switch Field(key) {
		case FieldID:
			f.ID = &v
		case FieldIssueTitle:
			f.IssueTitle = &v
		case FieldIssueText:
			f.IssueText = &v
		case FieldCreatedBy:
			f.CreatedBy = &v
		case FieldAssignedTo:
			f.AssignedTo = &v
		case FieldStatusText:
			f.StatusText = &v
		case FieldOpen:
			open := v == "true"
			f.Open = &open
		}
	}
	return f
}

// Matches reports whether issue satisfies every constraint in f.
func (f IssueFilter) Matches(issue Issue) bool {
	return matchString(f.ID, issue.ID) &&
		matchString(f.IssueTitle, issue.IssueTitle) &&
		matchString(f.IssueText, issue.IssueText) &&
		matchString(f.CreatedBy, issue.CreatedBy) &&
		matchString(f.AssignedTo, issue.AssignedTo) &&
		matchString(f.StatusText, issue.StatusText) &&
		(f.Open == nil || *f.Open == issue.Open)
}

func matchString(want *string, got string) bool {
	return want == nil || *want == got
}
