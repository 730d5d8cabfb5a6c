package model

import (
	"time"
)

type NotificationType string

const (
	NotificationGroupInvite    NotificationType = "group_invite"
	NotificationInviteAccepted NotificationType = "invite_accepted"
	NotificationTaskAssigned   NotificationType = "task_assigned"
	NotificationTaskComment    NotificationType = "task_comment"
	NotificationMemberRemoved  NotificationType = "member_removed"
	NotificationPasswordReset  NotificationType = "password_reset"
)

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Message   string           `gorm:"not null" json:"message"`
	RelatedID *uint            `json:"related_id"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
