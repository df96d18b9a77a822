package host

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session groups the handles a client holds.
type Session struct {
	ID      string
	Name    string
	Created time.Time
}

// SessionStore manages sessions.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	handles  *HandleStore
}

// NewSessionStore creates a new session store.
func NewSessionStore(handles *HandleStore) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		handles:  handles,
	}
}

// Create creates a new session with an optional name.
func (s *SessionStore) Create(name string) *Session {
	session := &Session{
		ID:      uuid.NewString(),
		Name:    name,
		Created: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Destroy removes a session and releases all its handles.
func (s *SessionStore) Destroy(id string) int {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return s.handles.ReleaseSession(id)
}
