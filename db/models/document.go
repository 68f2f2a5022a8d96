package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentCategory string

const (
	DocIdentification DocumentCategory = "identification"
	DocFinancial      DocumentCategory = "financial"
	DocContract       DocumentCategory = "contract"
	DocPermit         DocumentCategory = "permit"
	DocCorrespondence DocumentCategory = "correspondence"
	DocBibob          DocumentCategory = "bibob"
	DocGeneral        DocumentCategory = "general"
)

func IsValidDocumentCategory(c DocumentCategory) bool {
	switch c {
	case DocIdentification, DocFinancial, DocContract, DocPermit,
		DocCorrespondence, DocBibob, DocGeneral:
		return true
	}
	return false
}

// Document is the index record for an uploaded file. The bytes live on the
// file storage backend under FilePath. When both CaseID and ClientID are set
// the case must belong to that client; the repository rejects inconsistent
// pairs.
type Document struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	FilePath string    `gorm:"not null" json:"file_path"`
	MimeType string    `json:"mime_type"`
	FileSize int64     `gorm:"not null" json:"file_size"`

	Category DocumentCategory `gorm:"type:varchar(30);not null;default:'general'" json:"category"`

	CaseID     *uuid.UUID `gorm:"type:uuid;index" json:"case_id"`
	ClientID   *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	UploaderID uuid.UUID  `gorm:"type:uuid;not null" json:"uploader_id"`

	Notes *string `gorm:"type:text" json:"notes"`

	Case     *Case               `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Client   *ClientOrganization `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Uploader *User               `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
