package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientStatus defines the lifecycle of a client organization.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientPending  ClientStatus = "pending"
)

// ClientOrganization is a hospitality business served by the consultancy.
type ClientOrganization struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	CompanyName string    `gorm:"not null" json:"company_name"`
	ContactName string    `gorm:"not null" json:"contact_name"`
	Email       string    `gorm:"not null;index" json:"email"`
	Phone       *string   `json:"phone"`

	Street     *string `json:"street"`
	PostalCode *string `json:"postal_code"`
	City       *string `json:"city"`

	// KVK chamber-of-commerce registration number. Staff-managed only.
	RegistrationNumber *string `gorm:"index" json:"registration_number"`

	Notes  *string      `gorm:"type:text" json:"notes"`
	Status ClientStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	AssignedEmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_employee_id"`
	AssignedEmployee   *User      `gorm:"foreignKey:AssignedEmployeeID" json:"assigned_employee,omitempty"`

	Cases    []Case          `gorm:"foreignKey:ClientID" json:"cases,omitempty"`
	Requests []ClientRequest `gorm:"foreignKey:ClientID" json:"requests,omitempty"`

	CreatedBy *string        `json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *ClientOrganization) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PortalAccount links a login user to the client organization it represents.
// A user without a PortalAccount row is staff.
type PortalAccount struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	User   *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Client *ClientOrganization `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *PortalAccount) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
