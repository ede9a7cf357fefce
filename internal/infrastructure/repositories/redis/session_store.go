package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps dialog sessions in Redis so they survive a gateway
// restart. The TTL bounds how long an abandoned dialog lingers; zero
// disables expiry.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) ports.SessionStore {
	return &SessionStore{
		client: client,
		prefix: "confbot:session:",
		ttl:    ttl,
	}
}

func (s *SessionStore) sessionKey(identity domain.Identity) string {
	return fmt.Sprintf("%s%d", s.prefix, identity)
}

func (s *SessionStore) Get(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(identity)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(session.Identity), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in Redis: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, identity domain.Identity) error {
	if err := s.client.Del(ctx, s.sessionKey(identity)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}
