package memory

import (
	"context"
	"sync"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
)

// SessionStore keeps dialog sessions in process memory. It is the default
// backend and the fallback when Redis is unreachable.
type SessionStore struct {
	sessions map[domain.Identity]domain.Session
	mu       sync.RWMutex
}

func NewSessionStore() ports.SessionStore {
	return &SessionStore{
		sessions: make(map[domain.Identity]domain.Session),
	}
}

func (s *SessionStore) Get(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[identity]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	copy := session
	return &copy, nil
}

func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Identity] = *session
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, identity)
	return nil
}
