package repositories

import (
	"context"
	"errors"
	"testing"

	"confbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakySessionStore fails every call while down is set.
type flakySessionStore struct {
	down     bool
	sessions map[domain.Identity]domain.Session
}

func newFlakySessionStore() *flakySessionStore {
	return &flakySessionStore{sessions: make(map[domain.Identity]domain.Session)}
}

var errBackendDown = errors.New("connection refused")

func (s *flakySessionStore) Get(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	if s.down {
		return nil, errBackendDown
	}
	session, ok := s.sessions[identity]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copy := session
	return &copy, nil
}

func (s *flakySessionStore) Put(ctx context.Context, session *domain.Session) error {
	if s.down {
		return errBackendDown
	}
	s.sessions[session.Identity] = *session
	return nil
}

func (s *flakySessionStore) Delete(ctx context.Context, identity domain.Identity) error {
	if s.down {
		return errBackendDown
	}
	delete(s.sessions, identity)
	return nil
}

func TestResilientSessionStore_PassesThroughWhenHealthy(t *testing.T) {
	primary := newFlakySessionStore()
	store := NewResilientSessionStore(primary, zap.NewNop().Sugar())
	ctx := context.Background()

	session := &domain.Session{Identity: 7, State: domain.StateAwaitingTopic}
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingTopic, got.State)

	require.NoError(t, store.Delete(ctx, 7))
	_, err = store.Get(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResilientSessionStore_MissIsNotAFailure(t *testing.T) {
	primary := newFlakySessionStore()
	store := NewResilientSessionStore(primary, zap.NewNop().Sugar())
	ctx := context.Background()

	// Enough misses to trip a naive failure counter.
	for i := 0; i < 10; i++ {
		_, err := store.Get(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}

	session := &domain.Session{Identity: 42, State: domain.StateAwaitingDate}
	require.NoError(t, store.Put(ctx, session))
	_, ok := primary.sessions[42]
	assert.True(t, ok, "write must reach the primary while healthy")
}

func TestResilientSessionStore_FallsBackWhileOpen(t *testing.T) {
	primary := newFlakySessionStore()
	store := NewResilientSessionStore(primary, zap.NewNop().Sugar())
	ctx := context.Background()

	primary.down = true

	// Trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := store.Get(ctx, 7)
		assert.ErrorIs(t, err, errBackendDown)
	}

	// Subsequent calls land in the fallback store.
	session := &domain.Session{Identity: 7, State: domain.StateAwaitingLink, Topic: "retro"}
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "retro", got.Topic)

	require.NoError(t, store.Delete(ctx, 7))
	_, err = store.Get(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
