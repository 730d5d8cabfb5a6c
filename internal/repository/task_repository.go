package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

// taskOrder sorts by due date ascending with undated tasks last, then
// priority high first, then insertion order as the tie-break.
const taskOrder = "due_date ASC NULLS LAST, " +
	"CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, " +
	"created_at ASC"

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	GetByGroupID(ctx context.Context, groupID uint) ([]model.Task, error)
	GetBySubgroupID(ctx context.Context, subgroupID uint) ([]model.Task, error)
	GetAssignedTo(ctx context.Context, userID uint) ([]model.Task, error)
	Update(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Assign(ctx context.Context, taskID, userID, assignedBy uint) (bool, error)
	Unassign(ctx context.Context, taskID, userID uint) (bool, error)
	Assignees(ctx context.Context, taskID uint) ([]model.User, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskPatch carries partial task updates; nil fields keep their
// previous values. DueDate and SubgroupID use a double pointer so the
// caller can distinguish "leave alone" (nil) from "clear" (*nil).
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	DueDate     **time.Time
	SubgroupID  **uint
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) GetByGroupID(ctx context.Context, groupID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order(taskOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetBySubgroupID(ctx context.Context, subgroupID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("subgroup_id = ?", subgroupID).
		Order(taskOrder).
		Find(&tasks).Error
	return tasks, err
}

// GetAssignedTo returns all tasks assigned to the user across groups.
func (r *TaskRepository) GetAssignedTo(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID).
		Order(taskOrder).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.SubgroupID != nil {
		updates["subgroup_id"] = *patch.SubgroupID
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Assign records a task assignment. Returns false when the (task,
// user) pair was already assigned.
func (r *TaskRepository) Assign(ctx context.Context, taskID, userID, assignedBy uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"INSERT INTO task_assignments (task_id, user_id, assigned_by, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING",
		taskID, userID, assignedBy, time.Now(),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TaskRepository) Unassign(ctx context.Context, taskID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.TaskAssignment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TaskRepository) Assignees(ctx context.Context, taskID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN task_assignments ON task_assignments.user_id = users.id").
		Where("task_assignments.task_id = ?", taskID).
		Order("users.username").
		Find(&users).Error
	return users, err
}
