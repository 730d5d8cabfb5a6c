package model

import (
	"time"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// GroupInvitation is unique per (group, invited user); accepted and
// rejected are terminal states.
type GroupInvitation struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	GroupID       uint             `gorm:"not null;uniqueIndex:idx_group_invitee" json:"group_id"`
	InvitedUserID uint             `gorm:"not null;uniqueIndex:idx_group_invitee" json:"invited_user_id"`
	InviterID     uint             `gorm:"not null" json:"inviter_id"`
	Status        InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time        `json:"created_at"`

	Group       Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group"`
	InvitedUser User  `gorm:"foreignKey:InvitedUserID" json:"-"`
	Inviter     User  `gorm:"foreignKey:InviterID" json:"inviter"`
}
