package repositories

import (
	"context"
	"time"

	"confbot/internal/core/ports"
	"confbot/internal/infrastructure/repositories/memory"
	redisrepo "confbot/internal/infrastructure/repositories/redis"
	"confbot/internal/infrastructure/repositories/sqlite"
	"confbot/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory wires the SQLite store and the session backend. Sessions fall back
// to memory when Redis is configured but unreachable.
type Factory struct {
	store       *sqlite.Store
	users       *CachedUserRepository
	useRedis    bool
	redisClient *redis.Client
	sessionTTL  time.Duration
	logger      *zap.SugaredLogger
}

// NewFactory opens the SQLite store and, when configured, the Redis session
// backend.
func NewFactory(cfg *config.Config, logger *zap.SugaredLogger) (*Factory, error) {
	store, err := sqlite.Open(cfg.Store.Path, cfg.Store.BusyTimeout)
	if err != nil {
		return nil, err
	}

	factory := &Factory{
		store:      store,
		useRedis:   cfg.Sessions.Backend == "redis",
		sessionTTL: cfg.Sessions.TTL,
		logger:     logger,
	}

	if factory.useRedis {
		client, err := redisrepo.NewClient(
			cfg.Sessions.Redis.Address,
			cfg.Sessions.Redis.Password,
			cfg.Sessions.Redis.DB,
			cfg.Sessions.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory sessions",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis session store")
		}
	}
	if !factory.useRedis {
		logger.Info("using memory session store")
	}

	return factory, nil
}

// CreateUserRepository returns the user repository behind a short-lived role
// cache shared across calls.
func (f *Factory) CreateUserRepository() ports.UserRepository {
	if f.users == nil {
		f.users = NewCachedUserRepository(sqlite.NewUserRepository(f.store))
	}
	return f.users
}

func (f *Factory) CreateGroupRepository() ports.GroupRepository {
	return sqlite.NewGroupRepository(f.store)
}

func (f *Factory) CreateMembershipRepository() ports.MembershipRepository {
	return sqlite.NewMembershipRepository(f.store)
}

func (f *Factory) CreateConferenceRepository() ports.ConferenceRepository {
	return sqlite.NewConferenceRepository(f.store)
}

func (f *Factory) CreateSessionStore() ports.SessionStore {
	if f.useRedis && f.redisClient != nil {
		primary := redisrepo.NewSessionStore(f.redisClient, f.sessionTTL)
		return NewResilientSessionStore(primary, f.logger)
	}
	return memory.NewSessionStore()
}

// Close releases the SQLite handle, the role cache, and the Redis connection
// if used.
func (f *Factory) Close() error {
	if f.users != nil {
		f.users.Close()
	}
	if f.redisClient != nil {
		_ = redisrepo.CloseClient(f.redisClient)
	}
	return f.store.Close()
}

// HealthCheck verifies the store and session backend are reachable.
func (f *Factory) HealthCheck(ctx context.Context) error {
	if err := f.store.DB().PingContext(ctx); err != nil {
		return err
	}
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
