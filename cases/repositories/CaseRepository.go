package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidStatus is returned when a write names a status outside the
// closed nine-value set.
var ErrInvalidStatus = errors.New("invalid case status")

type CaseRepository interface {
	CreateCase(tx *gorm.DB, cs *models.Case) (*models.Case, error)
	GetCaseByID(actor policy.Actor, id uuid.UUID) (*models.Case, error)
	GetFilteredCases(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.Case, int64, error)
	UpdateCase(actor policy.Actor, id uuid.UUID, updates map[string]interface{}) (*models.Case, error)
	DeleteCase(id uuid.UUID) error
	GetCasesForExport(actor policy.Actor, filters map[string]string) ([]models.Case, error)
}

type caseRepository struct {
	DB *gorm.DB
}

// NewCaseRepository initializes a new case repository
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{DB: db}
}

// CreateCase validates the enum fields and inserts. Accepts a transaction
// handle so the request-conversion workflow can reuse it.
func (r *caseRepository) CreateCase(tx *gorm.DB, cs *models.Case) (*models.Case, error) {
	if tx == nil {
		tx = r.DB
	}

	if cs.Status == "" {
		cs.Status = models.StatusIntake
	}
	if cs.Priority == "" {
		cs.Priority = models.PriorityNormal
	}

	if !models.IsValidCaseStatus(cs.Status) {
		return nil, ErrInvalidStatus
	}
	if !models.IsValidCaseType(cs.CaseType) {
		return nil, fmt.Errorf("invalid case type %q", cs.CaseType)
	}
	if !models.IsValidCasePriority(cs.Priority) {
		return nil, fmt.Errorf("invalid case priority %q", cs.Priority)
	}
	if cs.ClientID == uuid.Nil {
		return nil, errors.New("case must belong to a client organization")
	}

	if err := tx.Create(cs).Error; err != nil {
		config.Logger.Error("Failed to create case",
			zap.Error(err),
			zap.String("clientID", cs.ClientID.String()))
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return cs, nil
}

// GetCaseByID applies row scoping; a case outside the actor's scope reads as
// not found.
func (r *caseRepository) GetCaseByID(actor policy.Actor, id uuid.UUID) (*models.Case, error) {
	var cs models.Case
	query := policy.ScopeByClient(r.DB.Preload("Client").Preload("AssignedEmployee"), actor)
	if err := query.First(&cs, "cases.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *caseRepository) buildFilteredQuery(actor policy.Actor, filters map[string]string) *gorm.DB {
	query := policy.ScopeByClient(r.DB.Model(&models.Case{}), actor)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if caseType := filters["case_type"]; caseType != "" {
		query = query.Where("case_type = ?", caseType)
	}
	if priority := filters["priority"]; priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if clientID := filters["client_id"]; clientID != "" && actor.IsStaff() {
		query = query.Where("client_id = ?", clientID)
	}
	if employee := filters["assigned_employee_id"]; employee != "" {
		query = query.Where("assigned_employee_id = ?", employee)
	}
	if active := filters["active"]; active == "true" {
		query = query.Where("status NOT IN ?", []models.CaseStatus{
			models.StatusCompleted, models.StatusRejected, models.StatusCancelled,
		})
	}
	if from := filters["deadline_from"]; from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("deadline >= ?", t)
		}
	}
	if to := filters["deadline_to"]; to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("deadline <= ?", t)
		}
	}
	if search := filters["search"]; search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(municipality) LIKE ?",
			like, like, like,
		)
	}

	return query
}

func (r *caseRepository) GetFilteredCases(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.Case, int64, error) {
	var cases []models.Case
	var total int64

	query := r.buildFilteredQuery(actor, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Client").
		Order("updated_at DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

// UpdateCase applies a column-map update. Status values are checked against
// the closed set; the owning client is immutable.
func (r *caseRepository) UpdateCase(actor policy.Actor, id uuid.UUID, updates map[string]interface{}) (*models.Case, error) {
	existing, err := r.GetCaseByID(actor, id)
	if err != nil {
		return nil, err
	}

	delete(updates, "id")
	delete(updates, "client_id")
	delete(updates, "created_at")
	delete(updates, "created_by")

	if status, ok := updates["status"].(string); ok {
		if !models.IsValidCaseStatus(models.CaseStatus(status)) {
			return nil, ErrInvalidStatus
		}
	}
	if caseType, ok := updates["case_type"].(string); ok {
		if !models.IsValidCaseType(models.CaseType(caseType)) {
			return nil, fmt.Errorf("invalid case type %q", caseType)
		}
	}
	if priority, ok := updates["priority"].(string); ok {
		if !models.IsValidCasePriority(models.CasePriority(priority)) {
			return nil, fmt.Errorf("invalid case priority %q", priority)
		}
	}

	if err := r.DB.Model(&models.Case{}).Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		config.Logger.Error("Failed to update case",
			zap.Error(err),
			zap.String("caseID", id.String()))
		return nil, fmt.Errorf("failed to update case: %w", err)
	}

	return r.GetCaseByID(actor, id)
}

func (r *caseRepository) DeleteCase(id uuid.UUID) error {
	if err := r.DB.Unscoped().Delete(&models.Case{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	return nil
}

func (r *caseRepository) GetCasesForExport(actor policy.Actor, filters map[string]string) ([]models.Case, error) {
	var cases []models.Case
	query := r.buildFilteredQuery(actor, filters)
	if err := query.Preload("Client").
		Order("updated_at DESC, created_at DESC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}
