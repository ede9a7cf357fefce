package ports

import (
	"context"

	"confbot/internal/core/domain"
)

type UserRepository interface {
	// LookupRole returns the stored role for identity, or RoleGuest on a miss.
	LookupRole(ctx context.Context, identity domain.Identity) (domain.Role, error)
	GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error)
	// Create inserts a user. Identity and handle are unique.
	Create(ctx context.Context, user *domain.User) error
}

type GroupRepository interface {
	// Create attempts the insert and interprets the store's rejection:
	// a unique violation surfaces as domain.ErrDuplicateGroupName, a lock
	// timeout as domain.ErrStoreBusy. Callers never pre-check existence.
	Create(ctx context.Context, name string) (*domain.Group, error)
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	Delete(ctx context.Context, id domain.GroupID) error
	CountByName(ctx context.Context, name string) (int, error)
}

type MembershipRepository interface {
	// Add inserts a (user, group) pair. Duplicate pairs surface as
	// domain.ErrAlreadyMember, a missing parent row as domain.ErrUserNotFound
	// or domain.ErrGroupNotFound.
	Add(ctx context.Context, user domain.Identity, group domain.GroupID) error
	ListByUser(ctx context.Context, user domain.Identity) ([]*domain.GroupMember, error)
}

type ConferenceRepository interface {
	// Create is a single atomic insert. A missing group surfaces as
	// domain.ErrGroupNotFound, a lock timeout as domain.ErrStoreBusy.
	Create(ctx context.Context, conf *domain.Conference) error
	ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Conference, error)
}

// SessionStore holds per-identity dialog sessions. Implementations do not
// serialize access per identity themselves; the dialog service owns that.
type SessionStore interface {
	Get(ctx context.Context, identity domain.Identity) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, identity domain.Identity) error
}
