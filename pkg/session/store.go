package session

import (
	"errors"
	"sync"
	"time"

	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/locale"
	"aya-hq/companion/pkg/prompt"
	"aya-hq/companion/pkg/providers"
	"aya-hq/companion/pkg/telemetry/metrics"

	"github.com/google/uuid"
)

// ErrNotFound is returned for operations on a session that does not exist.
var ErrNotFound = errors.New("session not found")

// Reasons reported on the sessions removed counter.
const (
	RemovedDeleted = "deleted"
	RemovedExpired = "expired"
)

// Message is a stored conversation turn.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Info describes a session without its messages.
type Info struct {
	ID           string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
	Locale       string    `json:"language"`
}

// Stats summarizes the store.
type Stats struct {
	ActiveSessions            int     `json:"active_sessions"`
	TotalMessages             int     `json:"total_messages"`
	AverageMessagesPerSession float64 `json:"average_messages_per_session"`
	MaxMessagesPerSession     int     `json:"max_messages_per_session"`
}

type session struct {
	id           string
	createdAt    time.Time
	lastActivity time.Time
	messageCount int
	locale       string
	messages     []Message
}

func (s *session) info() Info {
	return Info{
		ID:           s.id,
		CreatedAt:    s.createdAt,
		LastActivity: s.lastActivity,
		MessageCount: s.messageCount,
		Locale:       s.locale,
	}
}

// Store is an in-memory, process-local conversation store. Each session
// keeps at most MaxMessages turns; older turns fall out of the window.
// Store is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxMessages int
	now         func() time.Time
	metrics     *metrics.Collector
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics reports session counts to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Store) { s.metrics = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store keeping the last maxMessages turns per session.
// Values below 2 use config.DefaultSessionMaxMessages.
func NewStore(maxMessages int, opts ...Option) *Store {
	if maxMessages < 2 {
		maxMessages = config.DefaultSessionMaxMessages
	}
	s := &Store{
		sessions:    make(map[string]*session),
		maxMessages: maxMessages,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxMessages returns the per-session window size.
func (s *Store) MaxMessages() int {
	return s.maxMessages
}

// Create creates a session and returns its ID. An empty id gets a new
// UUID. Creating an existing session leaves it untouched.
func (s *Store) Create(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(id).id
}

func (s *Store) ensureLocked(id string) *session {
	if id == "" {
		id = uuid.NewString()
	}
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	now := s.now().UTC()
	sess := &session{
		id:           id,
		createdAt:    now,
		lastActivity: now,
		locale:       string(locale.Default),
	}
	s.sessions[id] = sess
	s.metrics.SetActiveSessions(len(s.sessions))
	return sess
}

// Exists reports whether the session exists.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Append adds a turn to the session, creating the session if needed.
func (s *Store) Append(id, role, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureLocked(id)
	now := s.now().UTC()
	msg := Message{Role: role, Content: content, Timestamp: now}

	sess.messages = append(sess.messages, msg)
	if over := len(sess.messages) - s.maxMessages; over > 0 {
		sess.messages = append(sess.messages[:0:0], sess.messages[over:]...)
	}
	sess.messageCount++
	sess.lastActivity = now
	return msg
}

// Context returns the user and assistant turns of the session in order,
// ready to be formatted for the model. A missing session has no context.
func (s *Store) Context(id string) []providers.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]providers.Message, 0, len(sess.messages))
	for _, m := range sess.messages {
		if prompt.IsConversational(m.Role) {
			out = append(out, providers.Message{Role: m.Role, Content: m.Content})
		}
	}
	return out
}

// History returns up to limit of the most recent turns. A limit of zero or
// less returns the whole window.
func (s *Store) History(id string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	msgs := sess.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// SetLocale records the language preference, creating the session if
// needed. The tag is stored as given; callers validate it.
func (s *Store) SetLocale(id, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(id).locale = tag
}

// Locale returns the session's language, "en" when unknown.
func (s *Store) Locale(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok && sess.locale != "" {
		return sess.locale
	}
	return string(locale.Default)
}

// Clear drops all turns but keeps the session and its locale.
func (s *Store) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.messages = nil
	sess.messageCount = 0
	sess.lastActivity = s.now().UTC()
	return nil
}

// Delete removes the session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	s.metrics.RecordSessionsRemoved(RemovedDeleted, 1)
	s.metrics.SetActiveSessions(len(s.sessions))
	return true
}

// Info returns session metadata.
func (s *Store) Info(id string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Info{}, ErrNotFound
	}
	return sess.info(), nil
}

// Cleanup removes sessions idle for longer than maxAge and returns how many
// were removed.
func (s *Store) Cleanup(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().UTC().Add(-maxAge)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.metrics.RecordSessionsRemoved(RemovedExpired, removed)
		s.metrics.SetActiveSessions(len(s.sessions))
	}
	return removed
}

// Stats returns aggregate counts over the stored windows.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		ActiveSessions:        len(s.sessions),
		MaxMessagesPerSession: s.maxMessages,
	}
	for _, sess := range s.sessions {
		st.TotalMessages += len(sess.messages)
	}
	if st.ActiveSessions > 0 {
		st.AverageMessagesPerSession = float64(st.TotalMessages) / float64(st.ActiveSessions)
	}
	return st
}
