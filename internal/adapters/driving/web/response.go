package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
)

// APIError is the body of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// fault maps a sentinel to its HTTP status and error code.
type fault struct {
	err    error
	status int
	code   string
}

// faults is checked in order; the first match wins.
var faults = []fault{
	{domain.ErrNoFile, http.StatusBadRequest, "no_file"},
	{domain.ErrNotPDF, http.StatusBadRequest, "not_pdf"},
	{domain.ErrFileTooLarge, http.StatusBadRequest, "file_too_large"},
	{domain.ErrEmptyFile, http.StatusBadRequest, "empty_file"},
	{domain.ErrUnreadable, http.StatusBadRequest, "unreadable"},
	{domain.ErrNoText, http.StatusBadRequest, "no_text"},
	{domain.ErrTextTooShort, http.StatusBadRequest, "text_too_short"},
	{domain.ErrUnsupportedFormat, http.StatusBadRequest, "unsupported_format"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAnalysisInProgress, http.StatusConflict, "analysis_in_progress"},
	{domain.ErrLLMUnavailable, http.StatusServiceUnavailable, "llm_unavailable"},
	{domain.ErrAnalysisFailed, http.StatusInternalServerError, "analysis_failed"},
	{domain.ErrStorage, http.StatusInternalServerError, "storage_failure"},
}

// classify returns the status and code for err.
func classify(err error) (int, string) {
	for _, f := range faults {
		if errors.Is(err, f.err) {
			return f.status, f.code
		}
	}
	if domain.IsInputFault(err) {
		return http.StatusBadRequest, "invalid_input"
	}
	return http.StatusInternalServerError, "internal"
}

// RespondError writes the error envelope with an explicit status and code.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondFault writes the error envelope for a service error.
func respondFault(c *gin.Context, err error) {
	status, code := classify(err)
	_ = c.Error(err)
	RespondError(c, status, code, err)
}
