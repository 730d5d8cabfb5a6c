package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupplan/internal/model"
)

// errNotPending aborts the respond transaction when the pending guard
// matched no row; it never escapes Respond.
var errNotPending = errors.New("invitation is not pending")

type InvitationRepository struct {
	db *gorm.DB
}

type InvitationRepositoryInterface interface {
	Create(ctx context.Context, invitation *model.GroupInvitation) error
	GetByID(ctx context.Context, id uint) (*model.GroupInvitation, error)
	FindByGroupAndUser(ctx context.Context, groupID, userID uint) (*model.GroupInvitation, error)
	GetPendingForUser(ctx context.Context, userID uint) ([]model.GroupInvitation, error)
	Respond(ctx context.Context, id, userID uint, accept bool) (bool, error)
}

var _ InvitationRepositoryInterface = (*InvitationRepository)(nil)

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *model.GroupInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uint) (*model.GroupInvitation, error) {
	var invitation model.GroupInvitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uint) (*model.GroupInvitation, error) {
	var invitation model.GroupInvitation
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND invited_user_id = ?", groupID, userID).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepository) GetPendingForUser(ctx context.Context, userID uint) ([]model.GroupInvitation, error) {
	var invitations []model.GroupInvitation
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Inviter").
		Where("invited_user_id = ? AND status = ?", userID, model.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Respond moves a pending invitation to accepted or rejected. The
// status = 'pending' predicate in the UPDATE is the only guard against
// concurrent responses: at most one writer's update affects the row,
// every other caller gets false. Accepting also inserts the membership
// (role member) inside the same transaction.
func (r *InvitationRepository) Respond(ctx context.Context, id, userID uint, accept bool) (bool, error) {
	status := model.InvitationRejected
	if accept {
		status = model.InvitationAccepted
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.GroupInvitation{}).
			Where("id = ? AND invited_user_id = ? AND status = ?", id, userID, model.InvitationPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotPending
		}

		if !accept {
			return nil
		}

		var invitation model.GroupInvitation
		if err := tx.Where("id = ?", id).First(&invitation).Error; err != nil {
			return err
		}
		member := model.GroupMember{
			GroupID: invitation.GroupID,
			UserID:  userID,
			Role:    model.RoleMember,
		}
		return tx.Create(&member).Error
	})
	if errors.Is(err, errNotPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
