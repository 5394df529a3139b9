package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorResponse is the JSON body of every error the API returns.
type ErrorResponse struct {
	// Error is the HTTP status text, e.g. "Not Found".
	Error string `json:"error"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Timestamp is when the error was produced, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Path is the request path.
	Path string `json:"path,omitempty"`

	// Method is set on 404 and 405 responses.
	Method string `json:"method,omitempty"`

	// RequestID correlates the error with server logs.
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse builds the error body for status.
func NewErrorResponse(r *http.Request, status int, message string) ErrorResponse {
	resp := ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		RequestID: GetRequestID(r.Context()),
	}
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		resp.Method = r.Method
	}
	return resp
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, NewErrorResponse(r, status, message))
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}
