package memory

import (
	"sync"

	"convention-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Shell
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Shell),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string, create func() *app.Shell) *app.Shell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shell, ok := s.sessions[sessionID]; ok {
		return shell
	}
	shell := create()
	s.sessions[sessionID] = shell
	return shell
}

func (s *SessionStore) Get(sessionID string) (*app.Shell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shell, ok := s.sessions[sessionID]
	return shell, ok
}

// DeleteIfIdle drops the session and stops its timers once no connection is attached.
func (s *SessionStore) DeleteIfIdle(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shell, ok := s.sessions[sessionID]
	if !ok || !shell.Idle() {
		return
	}
	delete(s.sessions, sessionID)
	shell.Close()
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
