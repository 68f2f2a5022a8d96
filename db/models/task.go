package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task is a unit of staff work, optionally attached to a case.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`

	Status   TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority CasePriority `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`

	CaseID     *uuid.UUID `gorm:"type:uuid;index" json:"case_id"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	CreatorID  uuid.UUID  `gorm:"type:uuid;not null" json:"creator_id"`

	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`

	Case     *Case `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
