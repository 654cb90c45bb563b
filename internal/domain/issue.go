package domain

import (
	"fmt"
	"strings"
	"time"
)

// Field names an issue attribute as it appears on the wire.
type Field string

const (
	FieldID         Field = "_id"
	FieldIssueTitle Field = "issue_title"
	FieldIssueText  Field = "issue_text"
	FieldCreatedBy  Field = "created_by"
	FieldAssignedTo Field = "assigned_to"
	FieldStatusText Field = "status_text"
	FieldOpen       Field = "open"
)

// Issue represents a trackable unit of work within a project.
type Issue struct {
	ID         string    `json:"_id" db:"id"`
	Project    string    `json:"project" db:"project"`
	IssueTitle string    `json:"issue_title" db:"issue_title"`
	IssueText  string    `json:"issue_text" db:"issue_text"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	AssignedTo string    `json:"assigned_to" db:"assigned_to"`
	StatusText string    `json:"status_text" db:"status_text"`
	CreatedOn  time.Time `json:"created_on" db:"created_on"`
	UpdatedOn  time.Time `json:"updated_on" db:"updated_on"`
	Open       bool      `json:"open" db:"open"`
}

// NewIssue returns an open issue with both timestamps set to now.
func NewIssue(project, title, text, createdBy, assignedTo, statusText string, now time.Time) Issue {
	return Issue{
		Project:    project,
		IssueTitle: title,
		IssueText:  text,
		CreatedBy:  createdBy,
		AssignedTo: assignedTo,
		StatusText: statusText,
		CreatedOn:  now,
		UpdatedOn:  now,
		Open:       true,
	}
}

// IssuePatch holds the accepted fields of a partial update. Nil means untouched.
type IssuePatch struct {
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p IssuePatch) IsEmpty() bool {
	return p.IssueTitle == nil && p.IssueText == nil && p.CreatedBy == nil &&
		p.AssignedTo == nil && p.StatusText == nil && p.Open == nil
}

// Apply writes the patch onto issue and refreshes UpdatedOn.
func (p IssuePatch) Apply(issue *Issue, updatedOn time.Time) {
	if p.IssueTitle != nil {
		issue.IssueTitle = *p.IssueTitle
	}
	if p.IssueText != nil {
		issue.IssueText = *p.IssueText
	}
	if p.CreatedBy != nil {
		issue.CreatedBy = *p.CreatedBy
	}
	if p.AssignedTo != nil {
		issue.AssignedTo = *p.AssignedTo
	}
	if p.StatusText != nil {
		issue.StatusText = *p.StatusText
	}
	if p.Open != nil {
		issue.Open = *p.Open
	}
	issue.UpdatedOn = updatedOn
}

type updatableField struct {
	field Field
	set   func(p *IssuePatch, raw string) bool
}

func setText(target func(p *IssuePatch) **string) func(*IssuePatch, string) bool {
	return func(p *IssuePatch, raw string) bool {
		v := strings.TrimSpace(raw)
		if v == "" {
			return false
		}
		*target(p) = &v
		return true
	}
}

// updatableFields is the fixed allow-list consulted by ParsePatch.
var updatableFields = []updatableField{
	{FieldIssueTitle, setText(func(p *IssuePatch) **string { return &p.IssueTitle })},
	{FieldIssueText, setText(func(p *IssuePatch) **string { return &p.IssueText })},
	{FieldCreatedBy, setText(func(p *IssuePatch) **string { return &p.CreatedBy })},
	{FieldAssignedTo, setText(func(p *IssuePatch) **string { return &p.AssignedTo })},
	{FieldStatusText, setText(func(p *IssuePatch) **string { return &p.StatusText })},
	{FieldOpen, func(p *IssuePatch, raw string) bool {
		open, err := ParseOpen(raw)
		if err != nil {
			return false
		}
		p.Open = &open
		return true
	}},
}

// ParsePatch builds a patch from raw request values. Fields outside the
// allow-list are ignored and unacceptable values are skipped. It returns
// ErrNoUpdateFields when nothing was accepted.
func ParsePatch(values map[Field]string) (IssuePatch, error) {
	var patch IssuePatch
	for _, uf := range updatableFields {
		raw, ok := values[uf.field]
		if !ok {
			continue
		}
		uf.set(&patch, raw)
	}
	if patch.IsEmpty() {
		return IssuePatch{}, ErrNoUpdateFields
	}
	return patch, nil
}

// ParseOpen accepts exactly "true" or "false".
func ParseOpen(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: open must be true or false, got %q", ErrInvalidInput, raw)
	}
}
