// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The package wraps log/slog with a handler that:
//   - copies request_id, session, locale and trace_id from the context onto
//     every record
//   - redacts emails, phone numbers, SSNs, medical record numbers, dates,
//     bearer tokens and API keys from messages and string attributes
//   - masks attributes whose key names a secret (token, password, ...)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "message received", "email", "jane@example.org")
//	// {"msg":"message received","request_id":"req-123","email":"[REDACTED_EMAIL]"}
//
// The Redactor is also used on its own to screen chat messages before they
// are stored or sent to the model.
package logging
