// Package server provides the HTTP API of the companion backend.
//
// The server routes browser requests to the chat handler and the session
// store, and exposes health, readiness, version and metrics endpoints.
// Routing uses chi; the middleware chain lives in the middleware
// subpackage.
//
// # Routes
//
//	POST   /api/chat/message               send a message, get a reply
//	GET    /api/chat/history               ?session_id=&limit= (1..100, default 50)
//	DELETE /api/chat/session/{id}          clear a conversation
//	POST   /api/session/new                start a session
//	POST   /api/session/locale             ?session_id=&locale=
//	GET    /api/session/{id}/info          session metadata
//	DELETE /api/session/{id}               delete a session
//	GET    /api/session/stats              store statistics
//	POST   /api/session/cleanup            ?max_age_hours= (1..168, default 24)
//	GET    /health                         service info and model endpoint probe
//	GET    /live, /ready, /version         probes and build info
//	GET    /metrics                        Prometheus metrics
//
// When server.admin.api_keys is set, the stats and cleanup routes require
// one of the keys as a Bearer token or in X-API-Key, and answer 401
// otherwise.
//
// # Basic Usage
//
//	srv := server.New(cfg, server.Deps{
//	    Chat:      chatHandler,
//	    Sessions:  store,
//	    Assistant: service,
//	    Limiter:   limiter,
//	    Metrics:   collector,
//	    Version:   health.NewVersionInfo(version, commit, buildTime),
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start returns after ctx is cancelled and in-flight requests have
// completed, or the shutdown timeout has passed.
package server
