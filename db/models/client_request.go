package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestReviewing RequestStatus = "reviewing"
	RequestApproved  RequestStatus = "approved"
	RequestConverted RequestStatus = "converted"
	RequestRejected  RequestStatus = "rejected"
)

func IsValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestReviewing, RequestApproved,
		RequestConverted, RequestRejected:
		return true
	}
	return false
}

// RequestableCaseTypes is the subset of the case-type vocabulary a client may
// ask for directly. Bibob screenings are opened by staff only.
var RequestableCaseTypes = []CaseType{
	CaseExploitatievergunning,
	CaseAlcoholvergunning,
	CaseTerrasvergunning,
	CaseOvername,
	CaseVerbouwing,
	CaseOther,
}

func IsRequestableCaseType(t CaseType) bool {
	for _, v := range RequestableCaseTypes {
		if v == t {
			return true
		}
	}
	return false
}

type RequestUrgency string

const (
	UrgencyNormal RequestUrgency = "normal"
	UrgencyUrgent RequestUrgency = "urgent"
)

// ClientRequest is a client-submitted ask for a new permit engagement.
// ConvertedToCaseID is non-nil exactly when Status is converted; the
// conversion workflow maintains this inside a single transaction.
type ClientRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	RequestType  CaseType       `gorm:"type:varchar(30);not null" json:"request_type"`
	Title        string         `gorm:"not null" json:"title"`
	Description  *string        `gorm:"type:text" json:"description"`
	Municipality *string        `json:"municipality"`
	Urgency      RequestUrgency `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`

	Status            RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedByID      *uuid.UUID    `gorm:"type:uuid" json:"reviewed_by_id"`
	ConvertedToCaseID *uuid.UUID    `gorm:"type:uuid;index" json:"converted_to_case_id"`

	Client        *ClientOrganization `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ReviewedBy    *User               `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	ConvertedCase *Case               `gorm:"foreignKey:ConvertedToCaseID" json:"converted_case,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ClientRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsDecidable reports whether a reviewer may still approve or reject.
func (r *ClientRequest) IsDecidable() bool {
	return r.Status == RequestPending || r.Status == RequestReviewing
}
