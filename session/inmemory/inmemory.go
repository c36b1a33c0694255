package inmemory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codebyNJ/AIResearch-Agent/session"
)

// Store keeps sessions in process memory. Expired sessions are pruned lazily
// on EnsureSession.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewSessionStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (store *Store) EnsureSession(id string, ttl time.Duration) (session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := time.Now()
	for sid, sess := range store.sessions {
		if sess.expired(now) {
			delete(store.sessions, sid)
		}
	}

	if id != "" {
		if sess, ok := store.sessions[id]; ok {
			sess.Expire(ttl)
			return sess, nil
		}
	}

	sess := newSession(uuid.NewString(), ttl)
	store.sessions[sess.ID()] = sess
	return sess, nil
}

func (store *Store) GetSession(id string) (session.Session, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	sess, ok := store.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess, nil
}

// Session implements session.Session.
type Session struct {
	id string

	mu              sync.RWMutex
	deadline        time.Time
	history         []string
	seen            map[string]struct{}
	sourcesAnalyzed int
}

func newSession(id string, ttl time.Duration) *Session {
	s := &Session{id: id, seen: make(map[string]struct{})}
	s.Expire(ttl)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Expire(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		s.deadline = time.Now().Add(ttl)
	} else {
		s.deadline = time.Time{}
	}
}

func (s *Session) expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.deadline.IsZero() && now.After(s.deadline)
}

func (s *Session) AddQuery(q string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[q]; ok {
		return false
	}
	s.seen[q] = struct{}{}
	s.history = append(s.history, q)
	return true
}

func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}

func (s *Session) Recent(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	return append([]string(nil), s.history[len(s.history)-n:]...)
}

func (s *Session) AddSourcesAnalyzed(n int) {
	s.mu.Lock()
	s.sourcesAnalyzed += n
	s.mu.Unlock()
}

func (s *Session) SourcesAnalyzed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourcesAnalyzed
}
