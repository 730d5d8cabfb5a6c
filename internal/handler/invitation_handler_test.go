package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"groupplan/internal/handler"
	"groupplan/internal/model"
	"groupplan/internal/notify"
)

type invitationFixture struct {
	invitations *MockInvitationRepository
	groups      *MockGroupRepository
	members     *MockMemberRepository
	users       *MockUserRepository
	store       *recordingStore
	router      *gin.Engine
}

func newInvitationFixture(userID uint) *invitationFixture {
	gin.SetMode(gin.TestMode)

	f := &invitationFixture{
		invitations: new(MockInvitationRepository),
		groups:      new(MockGroupRepository),
		members:     new(MockMemberRepository),
		users:       new(MockUserRepository),
		store:       &recordingStore{},
	}

	h := handler.NewInvitationHandler(
		f.invitations, f.groups, f.members, f.users,
		notify.New(f.store), zap.NewNop(),
	)

	r := gin.New()
	r.POST("/groups/:id/invitations", authAs(userID), h.Create)
	r.GET("/invitations", authAs(userID), h.ListMine)
	r.POST("/invitations/:id/respond", authAs(userID), h.Respond)
	f.router = r
	return f
}

func TestInvitationHandler_Create(t *testing.T) {
	f := newInvitationFixture(1)

	target := &model.User{ID: 2, Username: "bob", Email: "bob@example.com"}
	f.members.On("IsAdmin", mock.Anything, uint(10), uint(1)).Return(true, nil)
	f.users.On("FindByEmail", mock.Anything, "bob@example.com").Return(target, nil)
	f.members.On("IsMember", mock.Anything, uint(10), uint(2)).Return(false, nil)
	f.invitations.On("FindByGroupAndUser", mock.Anything, uint(10), uint(2)).Return(nil, nil)
	f.invitations.On("Create", mock.Anything, mock.AnythingOfType("*model.GroupInvitation")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.GroupInvitation).ID = 5
		}).
		Return(nil)
	f.groups.On("GetByID", mock.Anything, uint(10)).Return(&model.Group{ID: 10, Name: "Trip"}, nil)
	f.users.On("GetByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Username: "anna"}, nil)

	w := doJSON(f.router, http.MethodPost, "/groups/10/invitations",
		handler.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
	f.invitations.AssertExpectations(t)

	assert.Len(t, f.store.notifications, 1)
	n := f.store.notifications[0]
	assert.Equal(t, uint(2), n.UserID)
	assert.Equal(t, model.NotificationGroupInvite, n.Type)
	assert.Contains(t, n.Message, "anna")
	assert.Contains(t, n.Message, "Trip")
}

func TestInvitationHandler_Create_NotAdmin(t *testing.T) {
	f := newInvitationFixture(2)

	f.members.On("IsAdmin", mock.Anything, uint(10), uint(2)).Return(false, nil)

	w := doJSON(f.router, http.MethodPost, "/groups/10/invitations",
		handler.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.invitations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvitationHandler_Create_AlreadyInvited(t *testing.T) {
	f := newInvitationFixture(1)

	target := &model.User{ID: 2, Email: "bob@example.com"}
	f.members.On("IsAdmin", mock.Anything, uint(10), uint(1)).Return(true, nil)
	f.users.On("FindByEmail", mock.Anything, "bob@example.com").Return(target, nil)
	f.members.On("IsMember", mock.Anything, uint(10), uint(2)).Return(false, nil)
	f.invitations.On("FindByGroupAndUser", mock.Anything, uint(10), uint(2)).
		Return(&model.GroupInvitation{ID: 5, GroupID: 10, InvitedUserID: 2, Status: model.InvitationRejected}, nil)

	// a rejected invitation still blocks re-inviting
	w := doJSON(f.router, http.MethodPost, "/groups/10/invitations",
		handler.InviteRequest{Email: "bob@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User has already been invited", resp.Message)
	f.invitations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvitationHandler_Respond_Accept(t *testing.T) {
	f := newInvitationFixture(2)

	invitation := &model.GroupInvitation{
		ID: 5, GroupID: 10, InvitedUserID: 2, InviterID: 1,
		Status: model.InvitationAccepted,
	}
	f.invitations.On("Respond", mock.Anything, uint(5), uint(2), true).Return(true, nil)
	f.invitations.On("GetByID", mock.Anything, uint(5)).Return(invitation, nil)
	f.groups.On("GetByID", mock.Anything, uint(10)).Return(&model.Group{ID: 10, Name: "Trip"}, nil)
	f.users.On("GetByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "bob"}, nil)

	w := doJSON(f.router, http.MethodPost, "/invitations/5/respond",
		handler.RespondRequest{Accept: true})

	assert.Equal(t, http.StatusOK, w.Code)

	// the inviter learns their invitation was taken
	assert.Len(t, f.store.notifications, 1)
	n := f.store.notifications[0]
	assert.Equal(t, uint(1), n.UserID)
	assert.Equal(t, model.NotificationInviteAccepted, n.Type)
	assert.Contains(t, n.Message, "bob")
}

func TestInvitationHandler_Respond_Reject(t *testing.T) {
	f := newInvitationFixture(2)

	f.invitations.On("Respond", mock.Anything, uint(5), uint(2), false).Return(true, nil)

	w := doJSON(f.router, http.MethodPost, "/invitations/5/respond",
		handler.RespondRequest{Accept: false})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.store.notifications)
	f.invitations.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestInvitationHandler_Respond_NotPending(t *testing.T) {
	f := newInvitationFixture(2)

	f.invitations.On("Respond", mock.Anything, uint(5), uint(2), true).Return(false, nil)

	w := doJSON(f.router, http.MethodPost, "/invitations/5/respond",
		handler.RespondRequest{Accept: true})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invitation is not pending", resp.Message)
	assert.Empty(t, f.store.notifications)
}
