package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

type SubgroupRepository struct {
	db *gorm.DB
}

type SubgroupRepositoryInterface interface {
	Create(ctx context.Context, subgroup *model.Subgroup) error
	GetByID(ctx context.Context, id uint) (*model.Subgroup, error)
	GetByGroupID(ctx context.Context, groupID uint) ([]model.Subgroup, error)
	Update(ctx context.Context, id uint, patch SubgroupPatch) (*model.Subgroup, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

var _ SubgroupRepositoryInterface = (*SubgroupRepository)(nil)

func NewSubgroupRepository(db *gorm.DB) *SubgroupRepository {
	return &SubgroupRepository{db: db}
}

type SubgroupPatch struct {
	Name        *string
	Description *string
	Archived    *bool
}

func (r *SubgroupRepository) Create(ctx context.Context, subgroup *model.Subgroup) error {
	return r.db.WithContext(ctx).Create(subgroup).Error
}

func (r *SubgroupRepository) GetByID(ctx context.Context, id uint) (*model.Subgroup, error) {
	var subgroup model.Subgroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subgroup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subgroup, nil
}

func (r *SubgroupRepository) GetByGroupID(ctx context.Context, groupID uint) ([]model.Subgroup, error) {
	var subgroups []model.Subgroup
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name").
		Find(&subgroups).Error
	return subgroups, err
}

func (r *SubgroupRepository) Update(ctx context.Context, id uint, patch SubgroupPatch) (*model.Subgroup, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Archived != nil {
		updates["archived"] = *patch.Archived
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.Subgroup{}).
			Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete detaches the subgroup's tasks (subgroup_id goes NULL, the
// tasks survive) and removes the subgroup row, in one transaction.
func (r *SubgroupRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).
			Where("subgroup_id = ?", id).
			Update("subgroup_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Subgroup{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
