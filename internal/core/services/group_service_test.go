package services_test

import (
	"context"
	"testing"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/services"
	apperrors "confbot/pkg/errors"
	"confbot/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestGroupService_CreateGroup(t *testing.T) {
	ctx := context.Background()
	teacher := domain.Identity(301)

	t.Run("success", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)
		mockGroups.On("Create", ctx, "Go-Study").Return(&domain.Group{ID: 5, Name: "Go-Study"}, nil)

		group, err := svc.CreateGroup(ctx, teacher, "Go-Study")

		assert.NoError(t, err)
		assert.Equal(t, "Go-Study", group.Name)
		mockGroups.AssertExpectations(t)
	})

	t.Run("student is denied before validation or store access", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		student := domain.Identity(401)
		mockAuth.On("Authorize", ctx, student, domain.RoleTeacher, domain.RoleAdmin).Return(false, nil)

		_, err := svc.CreateGroup(ctx, student, "Go-Study")

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
		mockGroups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid name never reaches the store", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)

		_, err := svc.CreateGroup(ctx, teacher, "bad name!")

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
		mockGroups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name is a conflict, not retried", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)
		mockGroups.On("Create", ctx, "Go-Study").Return(nil, domain.ErrDuplicateGroupName)

		_, err := svc.CreateGroup(ctx, teacher, "Go-Study")

		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.CodeOf(err))
		mockGroups.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("busy store is retried then succeeds", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)
		mockGroups.On("Create", ctx, "Go-Study").Return(nil, domain.ErrStoreBusy).Twice()
		mockGroups.On("Create", ctx, "Go-Study").Return(&domain.Group{ID: 5, Name: "Go-Study"}, nil).Once()

		group, err := svc.CreateGroup(ctx, teacher, "Go-Study")

		assert.NoError(t, err)
		assert.Equal(t, domain.GroupID(5), group.ID)
		mockGroups.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("busy past the retry budget surfaces as unavailable", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)
		mockGroups.On("Create", ctx, "Go-Study").Return(nil, domain.ErrStoreBusy)

		_, err := svc.CreateGroup(ctx, teacher, "Go-Study")

		assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
	})

	t.Run("each busy retry fires the retry hook", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)

		busyRetries := 0
		cfg := fastRetry()
		cfg.OnRetry = func(int, error) { busyRetries++ }
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, cfg)

		mockAuth.On("Authorize", ctx, teacher, domain.RoleTeacher, domain.RoleAdmin).Return(true, nil)
		mockGroups.On("Create", ctx, "Go-Study").Return(nil, domain.ErrStoreBusy).Twice()
		mockGroups.On("Create", ctx, "Go-Study").Return(&domain.Group{ID: 5, Name: "Go-Study"}, nil).Once()

		_, err := svc.CreateGroup(ctx, teacher, "Go-Study")

		assert.NoError(t, err)
		assert.Equal(t, 2, busyRetries)
	})
}

func TestGroupService_JoinGroup(t *testing.T) {
	ctx := context.Background()
	student := domain.Identity(401)

	t.Run("success", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Role", ctx, student).Return(domain.RoleStudent, nil)
		mockGroups.On("GetByName", ctx, "QA-Automation").Return(&domain.Group{ID: 2, Name: "QA-Automation"}, nil)
		mockMembers.On("Add", ctx, student, domain.GroupID(2)).Return(nil)

		err := svc.JoinGroup(ctx, student, "QA-Automation")

		assert.NoError(t, err)
		mockMembers.AssertExpectations(t)
	})

	t.Run("guest is denied", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		guest := domain.Identity(999)
		mockAuth.On("Role", ctx, guest).Return(domain.RoleGuest, nil)

		err := svc.JoinGroup(ctx, guest, "QA-Automation")

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
		mockMembers.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown group", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Role", ctx, student).Return(domain.RoleStudent, nil)
		mockGroups.On("GetByName", ctx, "Nope").Return(nil, domain.ErrGroupNotFound)

		err := svc.JoinGroup(ctx, student, "Nope")

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("joining twice is a conflict", func(t *testing.T) {
		mockGroups := new(MockGroupRepository)
		mockMembers := new(MockMembershipRepository)
		mockAuth := new(MockAuthService)
		svc := services.NewGroupService(mockGroups, mockMembers, mockAuth, fastRetry())

		mockAuth.On("Role", ctx, student).Return(domain.RoleStudent, nil)
		mockGroups.On("GetByName", ctx, "QA-Automation").Return(&domain.Group{ID: 2, Name: "QA-Automation"}, nil)
		mockMembers.On("Add", ctx, student, domain.GroupID(2)).Return(domain.ErrAlreadyMember)

		err := svc.JoinGroup(ctx, student, "QA-Automation")

		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.CodeOf(err))
		mockMembers.AssertNumberOfCalls(t, "Add", 1)
	})
}
