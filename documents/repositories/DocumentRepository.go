package repositories

import (
	"errors"
	"fmt"
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInconsistentAttachment is returned when a document names a case and a
// client that do not belong together.
var ErrInconsistentAttachment = errors.New("document case does not belong to document client")

type DocumentRepository interface {
	CreateDocument(doc *models.Document) (*models.Document, error)
	GetDocumentByID(actor policy.Actor, id uuid.UUID) (*models.Document, error)
	GetFilteredDocuments(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.Document, int64, error)
	DeleteDocument(id uuid.UUID) error
}

type documentRepository struct {
	DB *gorm.DB
}

// NewDocumentRepository initializes a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{DB: db}
}

// CreateDocument inserts the index record. A case-attached document inherits
// the case's client when none is given; a mismatched case/client pair is
// rejected.
func (r *documentRepository) CreateDocument(doc *models.Document) (*models.Document, error) {
	if doc.Category == "" {
		doc.Category = models.DocGeneral
	}
	if !models.IsValidDocumentCategory(doc.Category) {
		return nil, fmt.Errorf("invalid document category %q", doc.Category)
	}

	if doc.CaseID != nil {
		var cs models.Case
		if err := r.DB.Select("id", "client_id").First(&cs, "id = ?", *doc.CaseID).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve document case: %w", err)
		}
		if doc.ClientID == nil {
			doc.ClientID = &cs.ClientID
		} else if *doc.ClientID != cs.ClientID {
			return nil, ErrInconsistentAttachment
		}
	}

	if err := r.DB.Create(doc).Error; err != nil {
		config.Logger.Error("Failed to create document record", zap.Error(err))
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) GetDocumentByID(actor policy.Actor, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	query := policy.ScopeByClient(r.DB.Preload("Case").Preload("Uploader"), actor)
	if err := query.First(&doc, "documents.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) GetFilteredDocuments(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.Document, int64, error) {
	var docs []models.Document
	var total int64

	query := policy.ScopeByClient(r.DB.Model(&models.Document{}), actor)

	if caseID := filters["case_id"]; caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}
	if clientID := filters["client_id"]; clientID != "" && actor.IsStaff() {
		query = query.Where("client_id = ?", clientID)
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Uploader").
		Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *documentRepository) DeleteDocument(id uuid.UUID) error {
	if err := r.DB.Unscoped().Delete(&models.Document{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
