package ports

import (
	"context"

	"confbot/internal/core/domain"
)

type AuthService interface {
	// Role resolves the identity's role, defaulting to guest on a miss.
	Role(ctx context.Context, identity domain.Identity) (domain.Role, error)
	// Authorize reports whether the identity's role is one of required.
	// It performs no mutation.
	Authorize(ctx context.Context, identity domain.Identity, required ...domain.Role) (bool, error)
}

type GroupService interface {
	CreateGroup(ctx context.Context, identity domain.Identity, name string) (*domain.Group, error)
	JoinGroup(ctx context.Context, identity domain.Identity, name string) error
}

type ConferenceService interface {
	// CreateConference commits a fully collected conference in one atomic
	// insert, retrying transient store-busy rejections a bounded number of
	// times before giving up.
	CreateConference(ctx context.Context, topic, date, confTime, link string, group domain.GroupID) (*domain.Conference, error)
	DefaultGroup() domain.GroupID
}

// DialogService drives the conference-creation state machine. Handling of
// messages from the same identity is serialized; distinct identities may
// proceed concurrently.
type DialogService interface {
	Start(ctx context.Context, identity domain.Identity) (string, error)
	HandleInput(ctx context.Context, identity domain.Identity, text string) (string, error)
	Active(ctx context.Context, identity domain.Identity) (bool, error)
	Cancel(ctx context.Context, identity domain.Identity) error
}
