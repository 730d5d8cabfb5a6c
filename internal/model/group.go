package model

import (
	"time"
)

type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

type Group struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	Name                  string    `gorm:"size:100;not null" json:"name"`
	Description           string    `gorm:"size:255" json:"description"`
	CreatorID             uint      `gorm:"not null" json:"creator_id"`
	MembersCanCreateTasks bool      `gorm:"not null;default:false" json:"members_can_create_tasks"`
	CreatedAt             time.Time `json:"created_at"`

	Creator   User          `gorm:"foreignKey:CreatorID" json:"-"`
	Members   []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Subgroups []Subgroup    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks     []Task        `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

// GroupMember joins users to groups. Membership is unique per
// (group, user) via the composite primary key.
type GroupMember struct {
	GroupID  uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role     GroupRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}
