package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupplan/internal/middleware"
	"groupplan/internal/model"
	"groupplan/internal/notify"
	"groupplan/internal/repository"
)

type TaskHandler struct {
	tasks     repository.TaskRepositoryInterface
	comments  repository.CommentRepositoryInterface
	subgroups repository.SubgroupRepositoryInterface
	members   repository.MemberRepositoryInterface
	users     repository.UserRepositoryInterface
	notifier  *notify.Notifier
	log       *zap.Logger
}

func NewTaskHandler(
	tasks repository.TaskRepositoryInterface,
	comments repository.CommentRepositoryInterface,
	subgroups repository.SubgroupRepositoryInterface,
	members repository.MemberRepositoryInterface,
	users repository.UserRepositoryInterface,
	notifier *notify.Notifier,
	log *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		comments:  comments,
		subgroups: subgroups,
		members:   members,
		users:     users,
		notifier:  notifier,
		log:       log,
	}
}

type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required,max=200"`
	Description string              `json:"description"`
	Priority    *model.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time          `json:"due_date"`
	SubgroupID  *uint               `json:"subgroup_id"`
}

// UpdateTaskRequest applies partial updates. Clear flags distinguish
// "leave the field alone" from "set it to null".
type UpdateTaskRequest struct {
	Title         *string             `json:"title"`
	Description   *string             `json:"description"`
	Status        *model.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority      *model.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *time.Time          `json:"due_date"`
	ClearDueDate  bool                `json:"clear_due_date"`
	SubgroupID    *uint               `json:"subgroup_id"`
	ClearSubgroup bool                `json:"clear_subgroup"`
}

type AssignRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// loadTask fetches a task and verifies the caller belongs to its
// group. Writes the error response itself on failure.
func (h *TaskHandler) loadTask(c *gin.Context, taskID, userID uint) *model.Task {
	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load task")
		return nil
	}
	if task == nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return nil
	}

	member, err := h.members.IsMember(c.Request.Context(), task.GroupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return nil
	}
	if !member {
		respondError(c, http.StatusForbidden, "Not a member of this group")
		return nil
	}
	return task
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	groupID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	allowed, err := h.members.CanCreateTasks(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check permissions")
		return
	}
	if !allowed {
		respondError(c, http.StatusForbidden, "Not allowed to create tasks in this group")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.SubgroupID != nil {
		subgroup, err := h.subgroups.GetByID(c.Request.Context(), *req.SubgroupID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to load subgroup")
			return
		}
		if subgroup == nil || subgroup.GroupID != groupID {
			respondError(c, http.StatusBadRequest, "Subgroup does not belong to this group")
			return
		}
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
		DueDate:     req.DueDate,
		GroupID:     groupID,
		SubgroupID:  req.SubgroupID,
		CreatorID:   userID,
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}
	respondData(c, http.StatusCreated, task)
}

func (h *TaskHandler) ListByGroup(c *gin.Context) {
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

	tasks, err := h.tasks.GetByGroupID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	respondData(c, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}
	respondData(c, http.StatusOK, task)
}

// ListAssigned returns the caller's assigned tasks across all groups.
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	tasks, err := h.tasks.GetAssignedTo(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	respondData(c, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.ClearDueDate {
		var cleared *time.Time
		patch.DueDate = &cleared
	} else if req.DueDate != nil {
		patch.DueDate = &req.DueDate
	}
	if req.ClearSubgroup {
		var cleared *uint
		patch.SubgroupID = &cleared
	} else if req.SubgroupID != nil {
		subgroup, err := h.subgroups.GetByID(c.Request.Context(), *req.SubgroupID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to load subgroup")
			return
		}
		if subgroup == nil || subgroup.GroupID != task.GroupID {
			respondError(c, http.StatusBadRequest, "Subgroup does not belong to this group")
			return
		}
		patch.SubgroupID = &req.SubgroupID
	}

	updated, err := h.tasks.Update(c.Request.Context(), taskID, patch)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}
	respondData(c, http.StatusOK, updated)
}

// Delete is allowed for group admins and the task's creator.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	if task.CreatorID != userID {
		admin, err := h.members.IsAdmin(c.Request.Context(), task.GroupID, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to check membership")
			return
		}
		if !admin {
			respondError(c, http.StatusForbidden, "Only the creator or an admin can delete a task")
			return
		}
	}

	deleted, err := h.tasks.Delete(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) Assign(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), task.GroupID, req.UserID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check membership")
		return
	}
	if !member {
		respondError(c, http.StatusBadRequest, "Assignee is not a member of this group")
		return
	}

	assigned, err := h.tasks.Assign(c.Request.Context(), taskID, req.UserID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to assign task")
		return
	}
	if !assigned {
		respondError(c, http.StatusConflict, "User is already assigned")
		return
	}

	assigner, err := h.users.GetByID(c.Request.Context(), userID)
	assignerName := "Someone"
	if err == nil && assigner != nil {
		assignerName = assigner.Username
	}
	if err := h.notifier.TaskAssigned(c.Request.Context(), req.UserID, task, assignerName); err != nil {
		h.log.Error("failed to create assignment notification", zap.Error(err), zap.Uint("user_id", req.UserID))
	}
	respondMessage(c, http.StatusCreated, "Task assigned")
}

func (h *TaskHandler) Unassign(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramUint(c, "user_id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	removed, err := h.tasks.Unassign(c.Request.Context(), taskID, targetID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to unassign task")
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "Assignment not found")
		return
	}
	respondMessage(c, http.StatusOK, "Task unassigned")
}

func (h *TaskHandler) Assignees(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	users, err := h.tasks.Assignees(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list assignees")
		return
	}

	response := make([]model.UserResponse, len(users))
	for i, u := range users {
		response[i] = u.ToResponse()
	}
	respondData(c, http.StatusOK, response)
}

// CreateComment adds a comment and fans notifications out to the
// task's assignees and creator, excluding the commenter.
func (h *TaskHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	comment := &model.TaskComment{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	assignees, err := h.tasks.Assignees(c.Request.Context(), taskID)
	if err == nil {
		assigneeIDs := make([]uint, len(assignees))
		for i, u := range assignees {
			assigneeIDs[i] = u.ID
		}
		author, _ := h.users.GetByID(c.Request.Context(), userID)
		authorName := "Someone"
		if author != nil {
			authorName = author.Username
		}
		if err := h.notifier.CommentAdded(c.Request.Context(), task, userID, authorName, assigneeIDs); err != nil {
			h.log.Error("failed to create comment notifications", zap.Error(err), zap.Uint("task_id", taskID))
		}
	}
	respondData(c, http.StatusCreated, comment)
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	task := h.loadTask(c, taskID, userID)
	if task == nil {
		return
	}

	comments, err := h.comments.GetByTaskID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	respondData(c, http.StatusOK, comments)
}
