package repositories

import (
	"context"
	"errors"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/internal/infrastructure/repositories/memory"
	"confbot/pkg/circuitbreaker"

	"go.uber.org/zap"
)

// ResilientSessionStore guards a remote session backend with a circuit
// breaker. While the circuit is open, sessions live in a process-local
// fallback store so active dialogs on this instance keep working.
type ResilientSessionStore struct {
	primary  ports.SessionStore
	fallback ports.SessionStore
	breaker  *circuitbreaker.CircuitBreaker
	logger   *zap.SugaredLogger
}

func NewResilientSessionStore(primary ports.SessionStore, logger *zap.SugaredLogger) *ResilientSessionStore {
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig())
	breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warnw("session store circuit state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return &ResilientSessionStore{
		primary:  primary,
		fallback: memory.NewSessionStore(),
		breaker:  breaker,
		logger:   logger,
	}
}

func (s *ResilientSessionStore) Get(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	var session *domain.Session
	err := s.breaker.Execute(func() error {
		var err error
		session, err = s.primary.Get(ctx, identity)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// A miss is a valid answer, not a backend failure.
			session = nil
			return nil
		}
		return err
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return s.fallback.Get(ctx, identity)
	}
	if err != nil {
		return nil, err
	}
	if session == nil {
		return s.fallback.Get(ctx, identity)
	}
	return session, nil
}

func (s *ResilientSessionStore) Put(ctx context.Context, session *domain.Session) error {
	err := s.breaker.Execute(func() error {
		return s.primary.Put(ctx, session)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return s.fallback.Put(ctx, session)
	}
	return err
}

func (s *ResilientSessionStore) Delete(ctx context.Context, identity domain.Identity) error {
	err := s.breaker.Execute(func() error {
		return s.primary.Delete(ctx, identity)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return s.fallback.Delete(ctx, identity)
	}
	// Clear any copy left behind from an earlier open window.
	_ = s.fallback.Delete(ctx, identity)
	return err
}

var _ ports.SessionStore = (*ResilientSessionStore)(nil)
