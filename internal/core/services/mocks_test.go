package services_test

import (
	"context"

	"confbot/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) LookupRole(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockUserRepository) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, name string) (*domain.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id domain.GroupID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupRepository) CountByName(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, user domain.Identity, group domain.GroupID) error {
	args := m.Called(ctx, user, group)
	return args.Error(0)
}

func (m *MockMembershipRepository) ListByUser(ctx context.Context, user domain.Identity) ([]*domain.GroupMember, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GroupMember), args.Error(1)
}

type MockConferenceRepository struct {
	mock.Mock
}

func (m *MockConferenceRepository) Create(ctx context.Context, conf *domain.Conference) error {
	args := m.Called(ctx, conf)
	return args.Error(0)
}

func (m *MockConferenceRepository) ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Conference, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conference), args.Error(1)
}

// Mock services

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Role(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockAuthService) Authorize(ctx context.Context, identity domain.Identity, required ...domain.Role) (bool, error) {
	callArgs := make([]interface{}, 0, len(required)+2)
	callArgs = append(callArgs, ctx, identity)
	for _, r := range required {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	return args.Bool(0), args.Error(1)
}

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) CreateGroup(ctx context.Context, identity domain.Identity, name string) (*domain.Group, error) {
	args := m.Called(ctx, identity, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) JoinGroup(ctx context.Context, identity domain.Identity, name string) error {
	args := m.Called(ctx, identity, name)
	return args.Error(0)
}

type MockConferenceService struct {
	mock.Mock
}

func (m *MockConferenceService) CreateConference(ctx context.Context, topic, date, confTime, link string, group domain.GroupID) (*domain.Conference, error) {
	args := m.Called(ctx, topic, date, confTime, link, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conference), args.Error(1)
}

func (m *MockConferenceService) DefaultGroup() domain.GroupID {
	args := m.Called()
	return args.Get(0).(domain.GroupID)
}

type MockDialogService struct {
	mock.Mock
}

func (m *MockDialogService) Start(ctx context.Context, identity domain.Identity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockDialogService) HandleInput(ctx context.Context, identity domain.Identity, text string) (string, error) {
	args := m.Called(ctx, identity, text)
	return args.String(0), args.Error(1)
}

func (m *MockDialogService) Active(ctx context.Context, identity domain.Identity) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

func (m *MockDialogService) Cancel(ctx context.Context, identity domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}
