package repositories

import (
	"errors"
	"fmt"

	caserepositories "horeca-compliance-backend/cases/repositories"
	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAlreadyDecided is returned when a reviewer tries to approve or reject a
// request that another reviewer already closed.
var ErrAlreadyDecided = errors.New("request has already been decided")

type RequestRepository interface {
	CreateRequest(req *models.ClientRequest) (*models.ClientRequest, error)
	GetRequestByID(actor policy.Actor, id uuid.UUID) (*models.ClientRequest, error)
	GetFilteredRequests(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.ClientRequest, int64, error)
	ApproveRequest(reviewer *models.User, id uuid.UUID) (*models.ClientRequest, *models.Case, error)
	RejectRequest(reviewer *models.User, id uuid.UUID) (*models.ClientRequest, error)
}

type requestRepository struct {
	DB       *gorm.DB
	CaseRepo caserepositories.CaseRepository
}

// NewRequestRepository initializes a new client-request repository
func NewRequestRepository(db *gorm.DB, caseRepo caserepositories.CaseRepository) RequestRepository {
	return &requestRepository{DB: db, CaseRepo: caseRepo}
}

func (r *requestRepository) CreateRequest(req *models.ClientRequest) (*models.ClientRequest, error) {
	if req.Urgency == "" {
		req.Urgency = models.UrgencyNormal
	}
	req.Status = models.RequestPending
	req.ReviewedByID = nil
	req.ConvertedToCaseID = nil

	if !models.IsRequestableCaseType(req.RequestType) {
		return nil, fmt.Errorf("case type %q cannot be requested", req.RequestType)
	}
	if req.ClientID == uuid.Nil {
		return nil, errors.New("request must belong to a client organization")
	}

	if err := r.DB.Create(req).Error; err != nil {
		config.Logger.Error("Failed to create client request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

func (r *requestRepository) GetRequestByID(actor policy.Actor, id uuid.UUID) (*models.ClientRequest, error) {
	var req models.ClientRequest
	query := policy.ScopeByClient(
		r.DB.Preload("Client").Preload("ReviewedBy").Preload("ConvertedCase"), actor)
	if err := query.First(&req, "client_requests.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetFilteredRequests(actor policy.Actor, limit, offset int, filters map[string]string) ([]models.ClientRequest, int64, error) {
	var requests []models.ClientRequest
	var total int64

	query := policy.ScopeByClient(r.DB.Model(&models.ClientRequest{}), actor)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if requestType := filters["request_type"]; requestType != "" {
		query = query.Where("request_type = ?", requestType)
	}
	if urgency := filters["urgency"]; urgency != "" {
		query = query.Where("urgency = ?", urgency)
	}
	if clientID := filters["client_id"]; clientID != "" && actor.IsStaff() {
		query = query.Where("client_id = ?", clientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Client").
		Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ApproveRequest converts a request into a case. The whole workflow runs in
// one transaction, and the first step claims the request with a guarded
// update so two concurrent reviewers cannot both convert it.
func (r *requestRepository) ApproveRequest(reviewer *models.User, id uuid.UUID) (*models.ClientRequest, *models.Case, error) {
	var request models.ClientRequest
	var createdCase *models.Case

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.ClientRequest{}).
			Where("id = ? AND status IN ?", id,
				[]models.RequestStatus{models.RequestPending, models.RequestReviewing}).
			Update("status", models.RequestReviewing)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.ClientRequest{}).
				Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrAlreadyDecided
		}

		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			return err
		}

		priority := models.PriorityNormal
		if request.Urgency == models.UrgencyUrgent {
			priority = models.PriorityUrgent
		}

		createdBy := reviewer.Email
		cs := &models.Case{
			ClientID:           request.ClientID,
			Title:              request.Title,
			Description:        request.Description,
			CaseType:           request.RequestType,
			Status:             models.StatusIntake,
			Priority:           priority,
			Municipality:       request.Municipality,
			AssignedEmployeeID: &reviewer.ID,
			CreatedBy:          &createdBy,
		}
		created, err := r.CaseRepo.CreateCase(tx, cs)
		if err != nil {
			return err
		}
		createdCase = created

		return tx.Model(&models.ClientRequest{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":               models.RequestConverted,
				"reviewed_by_id":       reviewer.ID,
				"converted_to_case_id": created.ID,
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if err := r.DB.Preload("Client").Preload("ConvertedCase").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	return &request, createdCase, nil
}

// RejectRequest closes a request without creating a case. The guarded update
// makes rejection a no-op when another reviewer decided first.
func (r *requestRepository) RejectRequest(reviewer *models.User, id uuid.UUID) (*models.ClientRequest, error) {
	result := r.DB.Model(&models.ClientRequest{}).
		Where("id = ? AND status IN ?", id,
			[]models.RequestStatus{models.RequestPending, models.RequestReviewing}).
		Updates(map[string]interface{}{
			"status":         models.RequestRejected,
			"reviewed_by_id": reviewer.ID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.DB.Model(&models.ClientRequest{}).
			Where("id = ?", id).Count(&exists).Error; err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, ErrAlreadyDecided
	}

	var request models.ClientRequest
	if err := r.DB.Preload("Client").Preload("ReviewedBy").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
