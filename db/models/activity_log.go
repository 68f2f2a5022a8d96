package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/datatypes"
)

// ActivityLog records security-relevant events only: unauthorized attempts on
// admin surfaces and admin mutations of other accounts. Not a debug log.
type ActivityLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	ActorID   *uuid.UUID     `gorm:"type:uuid;index" json:"actor_id"`
	ActorMail string         `json:"actor_email"`
	Action    string         `gorm:"not null;index" json:"action"`
	Path      string         `json:"path"`
	Details   datatypes.JSON `json:"details,omitempty"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const (
	ActionUnauthorizedAdminAccess = "unauthorized_admin_access"
	ActionUserCreated             = "user_created"
	ActionUserRoleChanged         = "user_role_changed"
	ActionClientDeleted           = "client_deleted"
	ActionCaseDeleted             = "case_deleted"
	ActionSettingsChanged         = "settings_changed"
)
