package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"groupplan/internal/middleware"
	"groupplan/internal/model"
	"groupplan/internal/repository"
)

type SubgroupHandler struct {
	subgroups repository.SubgroupRepositoryInterface
	members   repository.MemberRepositoryInterface
}

func NewSubgroupHandler(
	subgroups repository.SubgroupRepositoryInterface,
	members repository.MemberRepositoryInterface,
) *SubgroupHandler {
	return &SubgroupHandler{subgroups: subgroups, members: members}
}

type CreateSubgroupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type UpdateSubgroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Archived    *bool   `json:"archived"`
}

func (h *SubgroupHandler) Create(c *gin.Context) {
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

	var req CreateSubgroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	subgroup := &model.Subgroup{
		Name:        req.Name,
		Description: req.Description,
		GroupID:     groupID,
		CreatorID:   userID,
	}
	if err := h.subgroups.Create(c.Request.Context(), subgroup); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create subgroup")
		return
	}
	respondData(c, http.StatusCreated, subgroup)
}

func (h *SubgroupHandler) ListByGroup(c *gin.Context) {
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

	subgroups, err := h.subgroups.GetByGroupID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list subgroups")
		return
	}
	respondData(c, http.StatusOK, subgroups)
}

func (h *SubgroupHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	subgroupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	subgroup, err := h.subgroups.GetByID(c.Request.Context(), subgroupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load subgroup")
		return
	}
	if subgroup == nil {
		respondError(c, http.StatusNotFound, "Subgroup not found")
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), subgroup.GroupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !member {
		respondError(c, http.StatusForbidden, "Not a member of this group")
		return
	}

	var req UpdateSubgroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	updated, err := h.subgroups.Update(c.Request.Context(), subgroupID, repository.SubgroupPatch{
		Name:        req.Name,
		Description: req.Description,
		Archived:    req.Archived,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update subgroup")
		return
	}
	respondData(c, http.StatusOK, updated)
}

// Delete removes a subgroup; its tasks survive with subgroup_id set to
// null. Admin only.
func (h *SubgroupHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	subgroupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	subgroup, err := h.subgroups.GetByID(c.Request.Context(), subgroupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load subgroup")
		return
	}
	if subgroup == nil {
		respondError(c, http.StatusNotFound, "Subgroup not found")
		return
	}

	admin, err := h.members.IsAdmin(c.Request.Context(), subgroup.GroupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !admin {
		respondError(c, http.StatusForbidden, "Admin role required")
		return
	}

	deleted, err := h.subgroups.Delete(c.Request.Context(), subgroupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete subgroup")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Subgroup not found")
		return
	}
	respondMessage(c, http.StatusOK, "Subgroup deleted")
}
