package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	EmployeeRole Role = "employee"
	AdminRole    Role = "admin"
)

// User represents internal staff accounts and client portal logins.
// Whether a user acts as a client is determined by the presence of a
// PortalAccount row, not by the role field.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Phone     *string   `json:"phone"`
	Password  string    `json:"-"` // bcrypt hash, never serialized

	Role   Role `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	Active bool `gorm:"default:true" json:"active"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedBy *string        `json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
