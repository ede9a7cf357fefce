package sqlite

import (
	"context"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	"confbot/pkg/tracing"
)

type MembershipRepository struct {
	store *Store
}

func NewMembershipRepository(store *Store) ports.MembershipRepository {
	return &MembershipRepository{store: store}
}

// Add inserts the (user, group) pair and interprets the store's rejection.
// FOREIGN KEY failures do not name the missing parent, so the group is
// looked up afterwards to pick the right sentinel.
func (r *MembershipRepository) Add(ctx context.Context, user domain.Identity, group domain.GroupID) error {
	ctx, span := tracing.TraceStoreOperation(ctx, "insert", "group_members")
	defer span.End()

	_, err := r.store.sqlDB.ExecContext(ctx,
		"INSERT INTO group_members (user_identity, group_id) VALUES (?, ?)",
		user, group)
	if err == nil {
		return nil
	}

	switch {
	case isForeignKeyViolation(err):
		var exists int
		lookupErr := r.store.sqlDB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM groups WHERE id = ?", group).Scan(&exists)
		if lookupErr == nil && exists == 0 {
			return domain.ErrGroupNotFound
		}
		return domain.ErrUserNotFound
	case isUniqueViolation(err):
		return domain.ErrAlreadyMember
	case isBusy(err):
		return fmt.Errorf("insert membership: %w", domain.ErrStoreBusy)
	}
	return fmt.Errorf("insert membership: %w", err)
}

func (r *MembershipRepository) ListByUser(ctx context.Context, user domain.Identity) ([]*domain.GroupMember, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT m.id, m.user_identity, m.group_id, g.name
		 FROM group_members m JOIN groups g ON g.id = m.group_id
		 WHERE m.user_identity = ?
		 ORDER BY g.name`, user)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var members []*domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.ID, &m.User, &m.Group, &m.GroupName); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}
