package server

import (
	"net/http"

	"aya-hq/companion/pkg/security/auth"
	"aya-hq/companion/pkg/server/middleware"
	"aya-hq/companion/pkg/telemetry/tracing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(s.config.Environment == "development"))
	r.Use(middleware.RequestIDMiddleware)
	r.Use(tracing.HTTPMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CORSMiddleware(s.config.Server.CORS))
	r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.deps.Health.LivenessHandler())
	r.Get("/ready", s.deps.Health.ReadinessHandler())
	r.Get("/version", s.handleVersion)

	if s.config.Telemetry.Metrics.Enabled && s.deps.Metrics != nil {
		r.Handle(s.config.Telemetry.Metrics.Path, s.deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TimeoutMiddleware(s.config.Server.RequestTimeout))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", s.handleChatMessage)
			r.Get("/history", s.handleChatHistory)
			r.Delete("/session/{sessionID}", s.handleChatClear)
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/new", s.handleSessionNew)
			r.Post("/locale", s.handleSessionLocale)
			r.Group(func(r chi.Router) {
				r.Use(s.adminMiddleware())
				r.Get("/stats", s.handleSessionStats)
				r.Post("/cleanup", s.handleSessionCleanup)
			})
			r.Get("/{sessionID}/info", s.handleSessionInfo)
			r.Delete("/{sessionID}", s.handleSessionDelete)
		})
	})

	return r
}

// adminMiddleware guards the operator endpoints with the configured API
// keys. With no keys configured it passes requests through.
func (s *Server) adminMiddleware() func(http.Handler) http.Handler {
	keys := s.config.Server.Admin.APIKeys
	if len(keys) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	infos := make([]*auth.KeyInfo, 0, len(keys))
	for _, k := range keys {
		infos = append(infos, &auth.KeyInfo{Name: k.Name, Key: k.Key, Enabled: !k.Disabled})
	}

	mw := auth.NewMiddleware(auth.NewValidator(infos), nil, func(w http.ResponseWriter, r *http.Request, err error) {
		middleware.WriteError(w, r, http.StatusUnauthorized, "Missing or invalid API key")
	})
	return mw.Handle
}
