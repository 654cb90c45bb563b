package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/issuetracker/internal/domain"
	"github.com/sumire/issuetracker/internal/service"
)

// IssueHandler handles the /api/issues/:project endpoints.
type IssueHandler struct {
	issues *service.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issues *service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

// List returns the project's issues filtered by query parameters.
func (h *IssueHandler) List(c echo.Context) error {
	project := c.Param("project")

	issues, err := h.issues.List(c.Request().Context(), project, domain.ParseFilter(c.QueryParams()))
	if err != nil {
		slog.Error("list issues failed", "project", project, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
	}

	return c.JSON(http.StatusOK, issues)
}

// Create opens a new issue in the project.
func (h *IssueHandler) Create(c echo.Context) error {
	project := c.Param("project")

	fields, err := requestFields(c)
	if err != nil {
		return err
	}

	issue, err := h.issues.Create(c.Request().Context(), project, service.CreateIssueInput{
		IssueTitle: fields[domain.FieldIssueTitle],
		IssueText:  fields[domain.FieldIssueText],
		CreatedBy:  fields[domain.FieldCreatedBy],
		AssignedTo: fields[domain.FieldAssignedTo],
		StatusText: fields[domain.FieldStatusText],
	})
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusOK, ErrorResponse{Error: msgRequiredMissing})
		}
		slog.Error("create issue failed", "project", project, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDatabaseError})
	}

	return c.JSON(http.StatusOK, issue)
}

// Update applies a partial update to the issue named by _id.
func (h *IssueHandler) Update(c echo.Context) error {
	project := c.Param("project")

	fields, err := requestFields(c)
	if err != nil {
		return err
	}
	id := fields[domain.FieldID]

	err = h.issues.Update(c.Request().Context(), project, service.UpdateIssueInput{
		ID:     id,
		Fields: fields,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, ResultResponse{Result: msgUpdated, ID: id})
	case errors.Is(err, domain.ErrMissingID):
		return c.JSON(http.StatusOK, ErrorResponse{Error: msgMissingID})
	case errors.Is(err, domain.ErrNoUpdateFields):
		return c.JSON(http.StatusOK, ErrorResponse{Error: msgNoUpdateFields, ID: id})
	case !errors.Is(err, domain.ErrNotFound):
		slog.Error("update issue failed", "project", project, "id", id, "error", err)
	}
	return c.JSON(http.StatusOK, ErrorResponse{Error: msgCouldNotUpdate, ID: id})
}

// Delete removes the issue named by _id.
func (h *IssueHandler) Delete(c echo.Context) error {
	project := c.Param("project")

	fields, err := requestFields(c)
	if err != nil {
		return err
	}
	id := fields[domain.FieldID]

	err = h.issues.Delete(c.Request().Context(), project, id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, ResultResponse{Result: msgDeleted, ID: id})
	case errors.Is(err, domain.ErrMissingID):
		return c.JSON(http.StatusOK, ErrorResponse{Error: msgMissingID})
	case !errors.Is(err, domain.ErrNotFound):
		slog.Error("delete issue failed", "project", project, "id", id, "error", err)
	}
	return c.JSON(http.StatusOK, ErrorResponse{Error: msgCouldNotDelete, ID: id})
}
