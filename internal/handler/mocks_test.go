package handler_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"groupplan/internal/middleware"
	"groupplan/internal/model"
	"groupplan/internal/repository"
)

// authAs stands in for the session middleware in tests.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}
}

// recordingStore collects the notifications the handlers emit.
type recordingStore struct {
	notifications []model.Notification
}

func (s *recordingStore) Create(ctx context.Context, notification *model.Notification) error {
	s.notifications = append(s.notifications, *notification)
	return nil
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, patch repository.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *model.GroupInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByID(ctx context.Context, id uint) (*model.GroupInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uint) (*model.GroupInvitation, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) GetPendingForUser(ctx context.Context, userID uint) ([]model.GroupInvitation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.GroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) Respond(ctx context.Context, id, userID uint, accept bool) (bool, error) {
	args := m.Called(ctx, id, userID, accept)
	return args.Bool(0), args.Error(1)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) GetForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, id uint, patch repository.GroupPatch) (*model.Group, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Remove(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, groupID uint) ([]model.GroupMember, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]model.GroupMember), args.Error(1)
}

func (m *MockMemberRepository) GetRole(ctx context.Context, groupID, userID uint) (model.GroupRole, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Get(0).(model.GroupRole), args.Error(1)
}

func (m *MockMemberRepository) UpdateRole(ctx context.Context, groupID, userID uint, role model.GroupRole) (bool, error) {
	args := m.Called(ctx, groupID, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) IsAdmin(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) CanCreateTasks(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

var (
	_ repository.UserRepositoryInterface       = (*MockUserRepository)(nil)
	_ repository.InvitationRepositoryInterface = (*MockInvitationRepository)(nil)
	_ repository.GroupRepositoryInterface      = (*MockGroupRepository)(nil)
	_ repository.MemberRepositoryInterface     = (*MockMemberRepository)(nil)
)
