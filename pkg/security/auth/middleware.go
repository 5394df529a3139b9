package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Source names a request header that may carry the API key.
type Source struct {
	Header string
	Scheme string // "Bearer", etc. (optional)
}

// DefaultSources accepts "Authorization: Bearer <key>" and "X-API-Key: <key>".
var DefaultSources = []Source{
	{Header: "Authorization", Scheme: "Bearer"},
	{Header: "X-API-Key"},
}

// DenyFunc writes the response for a rejected request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware is HTTP middleware for API key authentication.
type Middleware struct {
	validator *Validator
	sources   []Source
	deny      DenyFunc
}

// NewMiddleware creates API key middleware. Nil sources mean
// DefaultSources; a nil deny writes a plain 401.
func NewMiddleware(validator *Validator, sources []Source, deny DenyFunc) *Middleware {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	if deny == nil {
		deny = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Missing or invalid API key", http.StatusUnauthorized)
		}
	}
	return &Middleware{
		validator: validator,
		sources:   sources,
		deny:      deny,
	}
}

// Handle wraps an HTTP handler with API key authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := m.validator.Validate(m.extractKey(r))
		if err != nil {
			slog.WarnContext(r.Context(), "API key rejected",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			m.deny(w, r, err)
			return
		}

		slog.DebugContext(r.Context(), "API key authenticated",
			"key_name", info.Name,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), keyInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractKey returns the first key found in the configured headers.
func (m *Middleware) extractKey(r *http.Request) string {
	for _, source := range m.sources {
		value := strings.TrimSpace(r.Header.Get(source.Header))
		if value == "" {
			continue
		}
		if source.Scheme == "" {
			return value
		}
		prefix := source.Scheme + " "
		if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
			return strings.TrimSpace(value[len(prefix):])
		}
	}
	return ""
}

type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const keyInfoKey contextKey = "api_key_info"

// GetKeyInfo retrieves the authenticated key from the request context.
func GetKeyInfo(ctx context.Context) (*KeyInfo, bool) {
	info, ok := ctx.Value(keyInfoKey).(*KeyInfo)
	return info, ok
}
