package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) ports.UserRepository {
	return &UserRepository{store: store}
}

// LookupRole returns the stored role, defaulting to guest when the identity
// has never been provisioned.
func (r *UserRepository) LookupRole(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	var role domain.Role
	err := r.store.sqlDB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE identity = ?", identity).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleGuest, nil
	}
	if err != nil {
		if isBusy(err) {
			return "", fmt.Errorf("lookup role: %w", domain.ErrStoreBusy)
		}
		return "", fmt.Errorf("lookup role: %w", err)
	}
	return role, nil
}

func (r *UserRepository) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	var user domain.User
	err := r.store.sqlDB.QueryRowContext(ctx,
		"SELECT identity, handle, role FROM users WHERE identity = ?", identity).
		Scan(&user.Identity, &user.Handle, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.store.sqlDB.ExecContext(ctx,
		"INSERT INTO users (identity, handle, role) VALUES (?, ?, ?)",
		user.Identity, user.Handle, user.Role)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("user %d already exists: %w", user.Identity, err)
		case isBusy(err):
			return fmt.Errorf("insert user: %w", domain.ErrStoreBusy)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
