package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

type MemberRepository struct {
	db *gorm.DB
}

type MemberRepositoryInterface interface {
	Remove(ctx context.Context, groupID, userID uint) (bool, error)
	List(ctx context.Context, groupID uint) ([]model.GroupMember, error)
	GetRole(ctx context.Context, groupID, userID uint) (model.GroupRole, error)
	UpdateRole(ctx context.Context, groupID, userID uint, role model.GroupRole) (bool, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	IsAdmin(ctx context.Context, groupID, userID uint) (bool, error)
	CanCreateTasks(ctx context.Context, groupID, userID uint) (bool, error)
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Remove deletes the membership together with the member's task
// assignments inside the group, in one transaction. Returns false when
// no membership row existed.
func (r *MemberRepository) Remove(ctx context.Context, groupID, userID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM task_assignments WHERE user_id = ? AND task_id IN (SELECT id FROM tasks WHERE group_id = ?)",
			userID, groupID,
		).Error; err != nil {
			return err
		}

		result := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&model.GroupMember{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}

// List returns memberships with their users, admins first, then
// alphabetically by username.
func (r *MemberRepository) List(ctx context.Context, groupID uint) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("CASE group_members.role WHEN 'admin' THEN 0 ELSE 1 END, users.username").
		Find(&members).Error
	return members, err
}

// GetRole returns the member's role, or "" when the user does not
// belong to the group.
func (r *MemberRepository) GetRole(ctx context.Context, groupID, userID uint) (model.GroupRole, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, groupID, userID uint, role model.GroupRole) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MemberRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	role, err := r.GetRole(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

func (r *MemberRepository) IsAdmin(ctx context.Context, groupID, userID uint) (bool, error) {
	role, err := r.GetRole(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return role == model.RoleAdmin, nil
}

// CanCreateTasks is true for admins, and for plain members when the
// group's members_can_create_tasks flag is set.
func (r *MemberRepository) CanCreateTasks(ctx context.Context, groupID, userID uint) (bool, error) {
	role, err := r.GetRole(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	if role == "" {
		return false, nil
	}
	if role == model.RoleAdmin {
		return true, nil
	}

	var group model.Group
	err = r.db.WithContext(ctx).Select("members_can_create_tasks").
		Where("id = ?", groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return group.MembersCanCreateTasks, nil
}
