package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"convention-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Shells and their engines live in process; Redis only holds a liveness
// marker per session so operators can see which presenters are connected.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Shell
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(sessionID), time.Now().UTC().Format(time.RFC3339), s.ttl).Err()
	return shell
}

func (s *SessionStore) Get(sessionID string) (*app.Shell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shell, ok := s.sessions[sessionID]
	return shell, ok
}

func (s *SessionStore) DeleteIfIdle(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shell, ok := s.sessions[sessionID]
	if !ok || !shell.Idle() {
		return
	}
	delete(s.sessions, sessionID)
	shell.Close()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:presenter:" + sessionID
}
