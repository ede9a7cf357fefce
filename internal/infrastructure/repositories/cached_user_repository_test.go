package repositories

import (
	"context"
	"testing"

	"confbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUserRepository struct {
	roles   map[domain.Identity]domain.Role
	lookups int
}

func (r *countingUserRepository) LookupRole(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	r.lookups++
	role, ok := r.roles[identity]
	if !ok {
		return domain.RoleGuest, nil
	}
	return role, nil
}

func (r *countingUserRepository) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return &domain.User{Identity: identity, Role: r.roles[identity]}, nil
}

func (r *countingUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.roles[user.Identity] = user.Role
	return nil
}

func TestCachedUserRepository_LookupHitsStoreOnce(t *testing.T) {
	inner := &countingUserRepository{roles: map[domain.Identity]domain.Role{10: domain.RoleTeacher}}
	repo := NewCachedUserRepository(inner)
	defer repo.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role, err := repo.LookupRole(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTeacher, role)
	}
	assert.Equal(t, 1, inner.lookups)
}

func TestCachedUserRepository_GuestMissIsCachedToo(t *testing.T) {
	inner := &countingUserRepository{roles: map[domain.Identity]domain.Role{}}
	repo := NewCachedUserRepository(inner)
	defer repo.Close()
	ctx := context.Background()

	role, err := repo.LookupRole(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, role)

	_, _ = repo.LookupRole(ctx, 99)
	assert.Equal(t, 1, inner.lookups)
}

func TestCachedUserRepository_CreateInvalidatesEntry(t *testing.T) {
	inner := &countingUserRepository{roles: map[domain.Identity]domain.Role{}}
	repo := NewCachedUserRepository(inner)
	defer repo.Close()
	ctx := context.Background()

	role, err := repo.LookupRole(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, role)

	require.NoError(t, repo.Create(ctx, &domain.User{Identity: 5, Role: domain.RoleStudent}))

	role, err = repo.LookupRole(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, role)
	assert.Equal(t, 2, inner.lookups)
}
