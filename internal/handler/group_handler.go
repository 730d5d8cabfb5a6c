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

type GroupHandler struct {
	groups   repository.GroupRepositoryInterface
	members  repository.MemberRepositoryInterface
	notifier *notify.Notifier
	log      *zap.Logger
}

func NewGroupHandler(
	groups repository.GroupRepositoryInterface,
	members repository.MemberRepositoryInterface,
	notifier *notify.Notifier,
	log *zap.Logger,
) *GroupHandler {
	return &GroupHandler{groups: groups, members: members, notifier: notifier, log: log}
}

type CreateGroupRequest struct {
	Name                  string `json:"name" binding:"required,max=100"`
	Description           string `json:"description" binding:"max=255"`
	MembersCanCreateTasks bool   `json:"members_can_create_tasks"`
}

type UpdateGroupRequest struct {
	Name                  *string `json:"name"`
	Description           *string `json:"description"`
	MembersCanCreateTasks *bool   `json:"members_can_create_tasks"`
}

type UpdateRoleRequest struct {
	Role model.GroupRole `json:"role" binding:"required,oneof=admin member"`
}

type MemberResponse struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Role     model.GroupRole `json:"role"`
	JoinedAt string          `json:"joined_at"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	group := &model.Group{
		Name:                  req.Name,
		Description:           req.Description,
		CreatorID:             userID,
		MembersCanCreateTasks: req.MembersCanCreateTasks,
	}
	if err := h.groups.Create(c.Request.Context(), group); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create group")
		return
	}
	respondData(c, http.StatusCreated, group)
}

func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	groups, err := h.groups.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list groups")
		return
	}
	respondData(c, http.StatusOK, groups)
}

func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !member {
		respondError(c, http.StatusForbidden, "Not a member of this group")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load group")
		return
	}
	if group == nil {
		respondError(c, http.StatusNotFound, "Group not found")
		return
	}
	respondData(c, http.StatusOK, group)
}

func (h *GroupHandler) Update(c *gin.Context) {
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

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	group, err := h.groups.Update(c.Request.Context(), groupID, repository.GroupPatch{
		Name:                  req.Name,
		Description:           req.Description,
		MembersCanCreateTasks: req.MembersCanCreateTasks,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update group")
		return
	}
	if group == nil {
		respondError(c, http.StatusNotFound, "Group not found")
		return
	}
	respondData(c, http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
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

	deleted, err := h.groups.Delete(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete group")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Group not found")
		return
	}
	respondMessage(c, http.StatusOK, "Group deleted")
}

func (h *GroupHandler) Members(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !member {
		respondError(c, http.StatusForbidden, "Not a member of this group")
		return
	}

	members, err := h.members.List(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list members")
		return
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = MemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			FullName: m.User.FullName,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	respondData(c, http.StatusOK, response)
}

// UpdateMemberRole promotes or demotes a member. Admins cannot change
// their own role, so a group always keeps at least one admin who
// consented to the change.
func (h *GroupHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramUint(c, "user_id")
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
	if targetID == userID {
		respondError(c, http.StatusBadRequest, "Cannot change your own role")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	updated, err := h.members.UpdateRole(c.Request.Context(), groupID, targetID, req.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if !updated {
		respondError(c, http.StatusNotFound, "Member not found")
		return
	}
	respondMessage(c, http.StatusOK, "Role updated")
}

// RemoveMember is the admin-initiated removal; it cleans the member's
// task assignments in the group and notifies the removed user.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramUint(c, "user_id")
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
	if targetID == userID {
		respondError(c, http.StatusBadRequest, "Use leave to remove yourself")
		return
	}

	removed, err := h.members.Remove(c.Request.Context(), groupID, targetID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove member")
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "Member not found")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), groupID)
	if err == nil && group != nil {
		if err := h.notifier.MemberRemoved(c.Request.Context(), targetID, groupID, group.Name); err != nil {
			h.log.Error("failed to create removal notification", zap.Error(err), zap.Uint("user_id", targetID))
		}
	}
	respondMessage(c, http.StatusOK, "Member removed")
}

// Leave is the voluntary exit; same cleanup as removal but no
// notification is emitted.
func (h *GroupHandler) Leave(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	removed, err := h.members.Remove(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to leave group")
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "Not a member of this group")
		return
	}
	respondMessage(c, http.StatusOK, "Left group")
}
