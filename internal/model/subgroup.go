package model

import (
	"time"
)

type Subgroup struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	CreatorID   uint      `gorm:"not null" json:"creator_id"`
	Archived    bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time `json:"created_at"`

	Group   Group `gorm:"foreignKey:GroupID" json:"-"`
	Creator User  `gorm:"foreignKey:CreatorID" json:"-"`
}
