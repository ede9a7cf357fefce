package services

import (
	"context"
	"errors"
	"fmt"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"
	apperrors "confbot/pkg/errors"
	"confbot/pkg/retry"
	"confbot/pkg/validation"
)

// GroupService creates groups and memberships. Group creation is gated to
// teacher/admin roles; joining only requires a provisioned (non-guest) user.
type GroupService struct {
	groups   ports.GroupRepository
	members  ports.MembershipRepository
	auth     ports.AuthService
	retryCfg retry.Config
}

func NewGroupService(groups ports.GroupRepository, members ports.MembershipRepository, auth ports.AuthService, retryCfg retry.Config) *GroupService {
	retryCfg.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStoreBusy) }
	return &GroupService{
		groups:   groups,
		members:  members,
		auth:     auth,
		retryCfg: retryCfg,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, identity domain.Identity, name string) (*domain.Group, error) {
	allowed, err := s.auth.Authorize(ctx, identity, domain.RoleTeacher, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if !allowed {
		return nil, apperrors.NewForbiddenError("you are not allowed to create groups")
	}

	if err := validation.ValidateGroupName(name); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	group, err := retry.DoWithResult(ctx, s.retryCfg, func() (*domain.Group, error) {
		return s.groups.Create(ctx, name)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateGroupName):
			return nil, apperrors.NewConflictError(fmt.Sprintf("a group named %q already exists", name)).WithCause(err)
		case errors.Is(err, domain.ErrStoreBusy):
			return nil, apperrors.NewUnavailableError("the store is busy, please try again").WithCause(err)
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) JoinGroup(ctx context.Context, identity domain.Identity, name string) error {
	role, err := s.auth.Role(ctx, identity)
	if err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}
	if role == domain.RoleGuest {
		return apperrors.NewForbiddenError("only registered users can join groups")
	}

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("group %q", name)).WithCause(err)
		}
		return fmt.Errorf("find group: %w", err)
	}

	err = retry.Do(ctx, s.retryCfg, func() error {
		return s.members.Add(ctx, identity, group.ID)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyMember):
			return apperrors.NewConflictError(fmt.Sprintf("you are already a member of %q", name)).WithCause(err)
		case errors.Is(err, domain.ErrGroupNotFound):
			return apperrors.NewNotFoundError(fmt.Sprintf("group %q", name)).WithCause(err)
		case errors.Is(err, domain.ErrUserNotFound):
			return apperrors.NewForbiddenError("only registered users can join groups").WithCause(err)
		case errors.Is(err, domain.ErrStoreBusy):
			return apperrors.NewUnavailableError("the store is busy, please try again").WithCause(err)
		}
		return fmt.Errorf("join group: %w", err)
	}
	return nil
}

var _ ports.GroupService = (*GroupService)(nil)
