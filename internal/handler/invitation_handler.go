package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupplan/internal/middleware"
	"groupplan/internal/model"
	"groupplan/internal/notify"
	"groupplan/internal/repository"
)

type InvitationHandler struct {
	invitations repository.InvitationRepositoryInterface
	groups      repository.GroupRepositoryInterface
	members     repository.MemberRepositoryInterface
	users       repository.UserRepositoryInterface
	notifier    *notify.Notifier
	log         *zap.Logger
}

func NewInvitationHandler(
	invitations repository.InvitationRepositoryInterface,
	groups repository.GroupRepositoryInterface,
	members repository.MemberRepositoryInterface,
	users repository.UserRepositoryInterface,
	notifier *notify.Notifier,
	log *zap.Logger,
) *InvitationHandler {
	return &InvitationHandler{
		invitations: invitations,
		groups:      groups,
		members:     members,
		users:       users,
		notifier:    notifier,
		log:         log,
	}
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

// Create invites a user (looked up by email) to the group. Admin only.
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	admin, err := h.members.IsAdmin(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !admin {
		respondError(c, http.StatusForbidden, "Admin role required")
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	target, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to find user")
		return
	}
	if target == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if target.ID == userID {
		respondError(c, http.StatusBadRequest, "Cannot invite yourself")
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), groupID, target.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if member {
		respondError(c, http.StatusConflict, "User is already a member")
		return
	}

	// The (group, user) unique index is the backstop; the pre-check
	// gives a readable message instead of a constraint violation.
	existing, err := h.invitations.FindByGroupAndUser(c.Request.Context(), groupID, target.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check invitations")
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, "User has already been invited")
		return
	}

	invitation := &model.GroupInvitation{
		GroupID:       groupID,
		InvitedUserID: target.ID,
		InviterID:     userID,
		Status:        model.InvitationPending,
	}
	if err := h.invitations.Create(c.Request.Context(), invitation); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create invitation")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), groupID)
	if err == nil && group != nil {
		inviter, _ := h.users.GetByID(c.Request.Context(), userID)
		inviterName := "Someone"
		if inviter != nil {
			inviterName = inviter.Username
		}
		if err := h.notifier.InviteCreated(c.Request.Context(), invitation, group.Name, inviterName); err != nil {
			h.log.Error("failed to create invite notification", zap.Error(err), zap.Uint("user_id", target.ID))
		}
	}
	respondData(c, http.StatusCreated, invitation)
}

// ListMine returns the caller's pending invitations.
func (h *InvitationHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	invitations, err := h.invitations.GetPendingForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list invitations")
		return
	}
	respondData(c, http.StatusOK, invitations)
}

// Respond accepts or rejects a pending invitation. Responding to an
// invitation that is no longer pending is a no-op failure.
func (h *InvitationHandler) Respond(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	invitationID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	responded, err := h.invitations.Respond(c.Request.Context(), invitationID, userID, req.Accept)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to respond to invitation")
		return
	}
	if !responded {
		respondError(c, http.StatusConflict, "Invitation is not pending")
		return
	}

	if req.Accept {
		invitation, err := h.invitations.GetByID(c.Request.Context(), invitationID)
		if err == nil && invitation != nil {
			group, _ := h.groups.GetByID(c.Request.Context(), invitation.GroupID)
			invitee, _ := h.users.GetByID(c.Request.Context(), userID)
			if group != nil && invitee != nil {
				err := h.notifier.InviteAccepted(c.Request.Context(),
					invitation.InviterID, group.ID, group.Name, invitee.Username)
				if err != nil {
					h.log.Error("failed to create acceptance notification",
						zap.Error(err), zap.Uint("user_id", invitation.InviterID))
				}
			}
		}
		respondMessage(c, http.StatusOK, "Invitation accepted")
		return
	}
	respondMessage(c, http.StatusOK, "Invitation rejected")
}
