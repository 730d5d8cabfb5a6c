package repository

import (
	"context"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

type CommentRepositoryInterface interface {
	Create(ctx context.Context, comment *model.TaskComment) error
	GetByTaskID(ctx context.Context, taskID uint) ([]model.TaskComment, error)
	Delete(ctx context.Context, id, authorID uint) (bool, error)
}

var _ CommentRepositoryInterface = (*CommentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) GetByTaskID(ctx context.Context, taskID uint) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}

// Delete removes a comment, but only for its author.
func (r *CommentRepository) Delete(ctx context.Context, id, authorID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&model.TaskComment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
