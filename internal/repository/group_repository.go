package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

type GroupRepository struct {
	db *gorm.DB
}

type GroupRepositoryInterface interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id uint) (*model.Group, error)
	GetForUser(ctx context.Context, userID uint) ([]model.Group, error)
	Update(ctx context.Context, id uint, patch GroupPatch) (*model.Group, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

var _ GroupRepositoryInterface = (*GroupRepository)(nil)

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

type GroupPatch struct {
	Name                  *string
	Description           *string
	MembersCanCreateTasks *bool
}

// Create inserts the group and the creator's admin membership in one
// transaction; either both rows persist or neither does.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := model.GroupMember{
			GroupID: group.ID,
			UserID:  group.CreatorID,
			Role:    model.RoleAdmin,
		}
		return tx.Create(&member).Error
	})
}

func (r *GroupRepository) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetForUser returns every group the user belongs to.
func (r *GroupRepository) GetForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.name").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Update(ctx context.Context, id uint, patch GroupPatch) (*model.Group, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.MembersCanCreateTasks != nil {
		updates["members_can_create_tasks"] = *patch.MembersCanCreateTasks
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.Group{}).
			Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the group row; members, subgroups and tasks go with
// it through the ON DELETE CASCADE foreign keys.
func (r *GroupRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Group{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
