package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/logging"
)

// APIResponse is the standardized error envelope. Success bodies for
// /api/similar and /api/dump bypass this entirely: they are bare JSON
// arrays, TSV, or plain text, matching the original service's wire format.
type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes for API responses.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// ResponseWriter writes the error envelope for a single request.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			RequestID: logging.RequestIDFromContext(rw.r.Context()),
		},
	}
	rw.writeJSON(statusCode, response)
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// writeJSON writes a JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)
	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps a request-handling error to its HTTP status and writes
// the error envelope. statusCode is a default used when err doesn't match
// one of the sentinels that implies its own status.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, catalog.ErrTrackNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, ErrNoUsableSeed):
		rw.BadRequest(err.Error())
	case statusCode == http.StatusNotFound:
		rw.NotFound(err.Error())
	case statusCode == http.StatusInternalServerError:
		logging.Error().Err(err).Msg("request failed")
		rw.InternalError("internal error")
	default:
		rw.BadRequest(err.Error())
	}
}

// writeJSONArray writes data as a bare JSON array, with no envelope.
func writeJSONArray(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeText writes a plain-text body, used for the "text" response format.
func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
	if len(body) == 0 || body[len(body)-1] != '\n' {
		_, _ = w.Write([]byte("\n"))
	}
}
