package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aya-hq/companion/pkg/chat"
	"aya-hq/companion/pkg/locale"
	"aya-hq/companion/pkg/session"
	"aya-hq/companion/pkg/server/middleware"
	"aya-hq/companion/pkg/telemetry/metrics"

	"github.com/go-chi/chi/v5"
)

// Query parameter bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
	MinCleanupAgeHours  = 1
	MaxCleanupAgeHours  = 168
	DefaultCleanupHours = 24
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Databricks  any       `json:"databricks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "OK",
		Service:     ServiceName,
		Version:     s.deps.Version.Version,
		Environment: s.config.Environment,
		Databricks:  map[string]string{"status": "not_initialized"},
	}
	if s.deps.Assistant != nil {
		resp.Databricks = s.deps.Assistant.HealthCheck(r.Context())
	}
	resp.Timestamp = time.Now().UTC()
	middleware.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, s.deps.Version)
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	err := decodeJSON(w, r, &req)
	loc := string(locale.Resolve(req.Language).Code)
	if err != nil {
		s.deps.Metrics.RecordChat(loc, metrics.OutcomeRejected, 0)
		middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.deps.Metrics.RecordChat(loc, metrics.OutcomeRejected, 0)
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if s.deps.Limiter != nil {
		keys := []string{clientKey(clientIP(r))}
		if req.SessionID != "" {
			keys = append(keys, sessionKey(req.SessionID))
		}
		result := s.deps.Limiter.CheckAll(keys...)
		middleware.SetRateLimitHeaders(w, result)
		if !result.Allowed {
			s.deps.Metrics.RecordRateLimited()
			s.deps.Metrics.RecordChat(loc, metrics.OutcomeRejected, 0)
			middleware.WriteRateLimited(w, r, result)
			return
		}
	}

	resp, err := s.deps.Chat.Send(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

type historyResponse struct {
	SessionID   string            `json:"session_id"`
	Messages    []session.Message `json:"messages"`
	TotalCount  int               `json:"total_count"`
	SessionInfo session.Info      `json:"session_info"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, "session_id is required")
		return
	}

	limit, err := intParam(r, "limit", DefaultHistoryLimit, 1, MaxHistoryLimit)
	if err != nil {
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	msgs, err := s.deps.Sessions.History(id, limit)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	info, err := s.deps.Sessions.Info(id)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, historyResponse{
		SessionID:   id,
		Messages:    msgs,
		TotalCount:  len(msgs),
		SessionInfo: info,
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.deps.Sessions.Clear(id); err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message":    "Session cleared successfully",
		"session_id": id,
	})
}

type newSessionRequest struct {
	Language string `json:"language"`
}

type newSessionResponse struct {
	SessionID string    `json:"session_id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleSessionNew(w http.ResponseWriter, r *http.Request) {
	var req newSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}
	loc := string(locale.Resolve(req.Language).Code)

	id := s.deps.Sessions.Create("")
	s.deps.Sessions.SetLocale(id, loc)
	info, err := s.deps.Sessions.Info(id)
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, newSessionResponse{
		SessionID: id,
		Language:  loc,
		CreatedAt: info.CreatedAt,
	})
}

type localeResponse struct {
	OK        bool             `json:"ok"`
	SessionID string           `json:"session_id"`
	Locale    string           `json:"locale"`
	Dir       locale.Direction `json:"dir"`
	Timestamp time.Time        `json:"timestamp"`
}

func (s *Server) handleSessionLocale(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, tag := q.Get("session_id"), q.Get("locale")
	if id == "" {
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, "session_id is required")
		return
	}
	if !locale.IsSupported(tag) {
		supported := make([]string, 0, len(locale.Supported()))
		for _, c := range locale.Supported() {
			supported = append(supported, string(c))
		}
		middleware.WriteError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid locale. Must be one of: %s", strings.Join(supported, ", ")))
		return
	}

	s.deps.Sessions.SetLocale(id, tag)
	middleware.WriteJSON(w, http.StatusOK, localeResponse{
		OK:        true,
		SessionID: id,
		Locale:    tag,
		Dir:       locale.Resolve(tag).Direction,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Sessions.Info(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeSessionError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, info)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.deps.Sessions.Delete(id) {
		s.writeSessionError(w, r, session.ErrNotFound)
		return
	}
	if s.deps.Limiter != nil {
		s.deps.Limiter.Forget(sessionKey(id))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Session deleted successfully",
		"session_id": id,
		"timestamp":  time.Now().UTC(),
	})
}

type statsResponse struct {
	session.Stats
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, statsResponse{
		Stats:     s.deps.Sessions.Stats(),
		Timestamp: time.Now().UTC(),
	})
}

type cleanupResponse struct {
	Message         string    `json:"message"`
	MaxAgeHours     int       `json:"max_age_hours"`
	CleanedSessions int       `json:"cleaned_sessions"`
	Timestamp       time.Time `json:"timestamp"`
}

func (s *Server) handleSessionCleanup(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r, "max_age_hours", DefaultCleanupHours, MinCleanupAgeHours, MaxCleanupAgeHours)
	if err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	maxAge := time.Duration(hours) * time.Hour
	cleaned := s.deps.Sessions.Cleanup(maxAge)
	if s.deps.Limiter != nil {
		s.deps.Limiter.Prune(maxAge)
	}

	middleware.WriteJSON(w, http.StatusOK, cleanupResponse{
		Message:         fmt.Sprintf("Cleaned up %d old sessions", cleaned),
		MaxAgeHours:     hours,
		CleanedSessions: cleaned,
		Timestamp:       time.Now().UTC(),
	})
}

func (s *Server) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrNotFound) {
		middleware.WriteError(w, r, http.StatusNotFound, "Session not found")
		return
	}
	middleware.WriteError(w, r, http.StatusInternalServerError, "Session operation failed")
}

// intParam reads an integer query parameter, returning def when absent.
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
	}
	return v, nil
}

// Limiter keys. A client is limited by address and, when it names one, by
// session, so fresh session IDs do not buy a fresh bucket.
func clientKey(ip string) string { return "addr:" + ip }

func sessionKey(id string) string { return "session:" + id }

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
