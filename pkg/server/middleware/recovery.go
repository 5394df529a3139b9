package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// Internal Server Error in the API error format. The panic is logged with a
// stack trace; clients never see internal details unless exposeErrors is
// set, which the server does only in development.
//
// Example usage:
//
//	handler = RecoveryMiddleware(false)(handler)
func RecoveryMiddleware(exposeErrors bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				message := "An unexpected error occurred"
				if exposeErrors {
					if err, ok := rec.(error); ok {
						message = err.Error()
					} else if s, ok := rec.(string); ok {
						message = s
					}
				}
				WriteError(w, r, http.StatusInternalServerError, message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
