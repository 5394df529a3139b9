// Package middleware provides the HTTP middleware chain of the API server
// and the JSON response helpers its handlers share.
//
// The server applies the chain outermost first:
//
//	RecoveryMiddleware → RequestIDMiddleware → LoggingMiddleware → CORSMiddleware → TimeoutMiddleware
//
// Every error, including panics and unknown routes, is written as an
// ErrorResponse:
//
//	{
//	  "error": "Not Found",
//	  "message": "Session not found",
//	  "timestamp": "2025-03-01T12:00:00Z",
//	  "path": "/api/session/abc/info",
//	  "request_id": "3f2b8c1e-..."
//	}
package middleware
