package model

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task belongs to exactly one group; the subgroup is optional and is
// nulled out when its subgroup is deleted.
type Task struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	GroupID     uint         `gorm:"not null;index" json:"group_id"`
	SubgroupID  *uint        `gorm:"index" json:"subgroup_id"`
	CreatorID   uint         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Group    Group     `gorm:"foreignKey:GroupID" json:"-"`
	Subgroup *Subgroup `gorm:"foreignKey:SubgroupID;constraint:OnDelete:SET NULL" json:"-"`
	Creator  User      `gorm:"foreignKey:CreatorID" json:"-"`
}

// TaskAssignment is the tasks<->users join table. Unique per
// (task, user); AssignedBy records who made the assignment.
type TaskAssignment struct {
	TaskID     uint      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	AssignedBy uint      `gorm:"not null" json:"assigned_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user"`
}

type TaskComment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Task   Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
