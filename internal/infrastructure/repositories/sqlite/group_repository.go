package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/pkg/tracing"
)

type GroupRepository struct {
	store *Store
}

func NewGroupRepository(store *Store) ports.GroupRepository {
	return &GroupRepository{store: store}
}

// Create attempts the insert without pre-checking existence; the store's
// unique constraint decides and the rejection is interpreted here.
func (r *GroupRepository) Create(ctx context.Context, name string) (*domain.Group, error) {
	ctx, span := tracing.TraceStoreOperation(ctx, "insert", "groups")
	defer span.End()

	res, err := r.store.sqlDB.ExecContext(ctx,
		"INSERT INTO groups (name) VALUES (?)", name)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.ErrDuplicateGroupName
		case isBusy(err):
			return nil, fmt.Errorf("insert group: %w", domain.ErrStoreBusy)
		}
		return nil, fmt.Errorf("insert group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("group insert id: %w", err)
	}
	return &domain.Group{ID: domain.GroupID(id), Name: name}, nil
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := r.store.sqlDB.QueryRowContext(ctx,
		"SELECT id, name FROM groups WHERE name = ?", name).
		Scan(&group.ID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select group: %w", err)
	}
	return &group, nil
}

// Delete removes a group; memberships and conferences cascade at the store
// level.
func (r *GroupRepository) Delete(ctx context.Context, id domain.GroupID) error {
	res, err := r.store.sqlDB.ExecContext(ctx,
		"DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		if isBusy(err) {
			return fmt.Errorf("delete group: %w", domain.ErrStoreBusy)
		}
		return fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if affected == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) CountByName(ctx context.Context, name string) (int, error) {
	var count int
	err := r.store.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM groups WHERE name = ?", name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return count, nil
}
