package repositories

import (
	"context"
	"strconv"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/pkg/cache"
)

// roleCacheTTL bounds how long a role change can go unnoticed by the router.
const roleCacheTTL = 30 * time.Second

// CachedUserRepository caches role lookups. Every routed message resolves the
// sender's role, so this keeps the hot path off the store.
type CachedUserRepository struct {
	inner ports.UserRepository
	roles *cache.Cache[domain.Role]
}

func NewCachedUserRepository(inner ports.UserRepository) *CachedUserRepository {
	return &CachedUserRepository{
		inner: inner,
		roles: cache.New[domain.Role](roleCacheTTL),
	}
}

func (r *CachedUserRepository) LookupRole(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	key := roleKey(identity)
	if role, ok := r.roles.Get(key); ok {
		return role, nil
	}

	role, err := r.inner.LookupRole(ctx, identity)
	if err != nil {
		return role, err
	}
	r.roles.Set(key, role)
	return role, nil
}

func (r *CachedUserRepository) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return r.inner.GetByIdentity(ctx, identity)
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	r.roles.Delete(roleKey(user.Identity))
	return nil
}

func (r *CachedUserRepository) Close() {
	r.roles.Stop()
}

func roleKey(identity domain.Identity) string {
	return strconv.FormatInt(int64(identity), 10)
}

var _ ports.UserRepository = (*CachedUserRepository)(nil)
