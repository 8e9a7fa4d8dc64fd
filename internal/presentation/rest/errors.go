package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// HTTPStatus maps the error taxonomy onto HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsAuthorization(err):
		return http.StatusForbidden
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsState(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal errors are logged and not shown to the client.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var bindErr *bindError
		status := HTTPStatus(err)
		if errors.As(err, &bindErr) {
			status = http.StatusBadRequest
		}

		detail := ErrorDetail{Message: err.Error(), Hint: apperr.Hint(err)}
		if status == http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", err,
			)
			detail = ErrorDetail{Message: "An unexpected error occurred"}
		}
		c.JSON(status, ErrorResponse{Error: detail})
	}
}

// bindError wraps a malformed request body.
type bindError struct{ err error }

func (e *bindError) Error() string { return "malformed request: " + e.err.Error() }
func (e *bindError) Unwrap() error { return e.err }

// bindJSON decodes the body into v and records a 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(&bindError{err: err})
		return false
	}
	return true
}
