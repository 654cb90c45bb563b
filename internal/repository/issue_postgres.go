package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/issuetracker/internal/domain"
)

const issueColumns = `id::text AS id, project, issue_title, issue_text, created_by, assigned_to,
	status_text, created_on, updated_on, open`

const issueSchema = `
CREATE TABLE IF NOT EXISTS issues (
	id          BIGSERIAL PRIMARY KEY,
	project     TEXT        NOT NULL,
	issue_title TEXT        NOT NULL,
	issue_text  TEXT        NOT NULL,
	created_by  TEXT        NOT NULL,
	assigned_to TEXT        NOT NULL DEFAULT '',
	status_text TEXT        NOT NULL DEFAULT '',
	created_on  TIMESTAMPTZ NOT NULL,
	updated_on  TIMESTAMPTZ NOT NULL,
	open        BOOLEAN     NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS issues_project_id_idx ON issues (project, id);`

// PostgresIssueStore handles issue data access against PostgreSQL.
type PostgresIssueStore struct {
	db *sqlx.DB
}

// NewPostgresIssueStore creates a new PostgresIssueStore.
func NewPostgresIssueStore(db *sqlx.DB) *PostgresIssueStore {
	return &PostgresIssueStore{db: db}
}

// EnsureSchema creates the issues table when it does not exist yet.
func (r *PostgresIssueStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, issueSchema); err != nil {
		return fmt.Errorf("ensure issue schema: %w", err)
	}
	return nil
}

// List retrieves a project's issues matching filter, oldest first.
func (r *PostgresIssueStore) List(ctx context.Context, project string, filter domain.IssueFilter) ([]domain.Issue, error) {
	where := []string{"project = $1"}
	args := []any{project}

	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ID != nil {
		id, ok := parseIssueID(*filter.ID)
		if !ok {
			return []domain.Issue{}, nil
		}
		add("id", id)
	}
	if filter.IssueTitle != nil {
		add("issue_title", *filter.IssueTitle)
	}
	if filter.IssueText != nil {
		add("issue_text", *filter.IssueText)
	}
	if filter.CreatedBy != nil {
		add("created_by", *filter.CreatedBy)
	}
	if filter.AssignedTo != nil {
		add("assigned_to", *filter.AssignedTo)
	}
	if filter.StatusText != nil {
		add("status_text", *filter.StatusText)
	}
	if filter.Open != nil {
		add("open", *filter.Open)
	}

	query := `SELECT ` + issueColumns + ` FROM issues WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY id`

	issues := []domain.Issue{}
	if err := r.db.SelectContext(ctx, &issues, query, args...); err != nil {
		return nil, fmt.Errorf("list issues for project %s: %w", project, err)
	}
	return issues, nil
}

// Create inserts issue and sets its generated ID. Timestamps are written
// back as stored, at the column's microsecond precision.
func (r *PostgresIssueStore) Create(ctx context.Context, issue *domain.Issue) error {
	var stored struct {
		ID        string    `db:"id"`
		CreatedOn time.Time `db:"created_on"`
		UpdatedOn time.Time `db:"updated_on"`
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO issues (project, issue_title, issue_text, created_by, assigned_to,
		                     status_text, created_on, updated_on, open)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id::text AS id, created_on, updated_on`,
		issue.Project, issue.IssueTitle, issue.IssueText, issue.CreatedBy, issue.AssignedTo,
		issue.StatusText, issue.CreatedOn, issue.UpdatedOn, issue.Open,
	).StructScan(&stored)
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	issue.ID = stored.ID
	issue.CreatedOn = stored.CreatedOn
	issue.UpdatedOn = stored.UpdatedOn
	return nil
}

// Update applies patch to the issue with id in project.
func (r *PostgresIssueStore) Update(ctx context.Context, project, id string, patch domain.IssuePatch, updatedOn time.Time) error {
	issueID, ok := parseIssueID(id)
	if !ok {
		return fmt.Errorf("update issue %s/%s: %w", project, id, domain.ErrNotFound)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET
		     issue_title = COALESCE($3, issue_title),
		     issue_text  = COALESCE($4, issue_text),
		     created_by  = COALESCE($5, created_by),
		     assigned_to = COALESCE($6, assigned_to),
		     status_text = COALESCE($7, status_text),
		     open        = COALESCE($8, open),
		     updated_on  = $9
		 WHERE project = $1 AND id = $2`,
		project, issueID, patch.IssueTitle, patch.IssueText, patch.CreatedBy,
		patch.AssignedTo, patch.StatusText, patch.Open, updatedOn,
	)
	if err != nil {
		return fmt.Errorf("update issue %s/%s: %w", project, id, err)
	}
	return requireAffected(res, "update", project, id)
}

// Delete removes the issue with id from project.
func (r *PostgresIssueStore) Delete(ctx context.Context, project, id string) error {
	issueID, ok := parseIssueID(id)
	if !ok {
		return fmt.Errorf("delete issue %s/%s: %w", project, id, domain.ErrNotFound)
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM issues WHERE project = $1 AND id = $2`, project, issueID)
	if err != nil {
		return fmt.Errorf("delete issue %s/%s: %w", project, id, err)
	}
	return requireAffected(res, "delete", project, id)
}

func requireAffected(res sql.Result, op, project, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s issue %s/%s: rows affected: %w", op, project, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s issue %s/%s: %w", op, project, id, domain.ErrNotFound)
	}
	return nil
}

func parseIssueID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
