package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/issuetracker/internal/domain"
)

// Response messages. Logical failures travel in the payload with status 200.
const (
	msgRequiredMissing = "required field(s) missing"
	msgMissingID       = "missing _id"
	msgNoUpdateFields  = "no update field(s) sent"
	msgCouldNotUpdate  = "could not update"
	msgCouldNotDelete  = "could not delete"
	msgUpdated         = "successfully updated"
	msgDeleted         = "successfully deleted"
	msgDatabaseError   = "database error"
	msgInvalidBody     = "invalid request body"
)

// ResultResponse reports a successful mutation of one issue.
type ResultResponse struct {
	Result string `json:"result"`
	ID     string `json:"_id"`
}

// ErrorResponse reports a failed operation, carrying the offending id when known.
type ErrorResponse struct {
	Error string `json:"error"`
	ID    string `json:"_id,omitempty"`
}

// HTTPErrorHandler is the global error handler for echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if jsonErr := c.JSON(status, body); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

func mapError(err error) (int, ErrorResponse) {
	// Handle echo's own HTTP errors (404, 405, etc.)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, ErrorResponse{Error: msg}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound)}
	default:
		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
	}
}
