package repositories

import (
	"fmt"
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientRepository interface {
	CreateClient(client *models.ClientOrganization) (*models.ClientOrganization, error)
	GetClientByID(id uuid.UUID) (*models.ClientOrganization, error)
	GetFilteredClients(limit, offset int, filters map[string]string) ([]models.ClientOrganization, int64, error)
	UpdateClient(client *models.ClientOrganization) (*models.ClientOrganization, error)
	UpdateClientFields(id uuid.UUID, updates map[string]interface{}) error
	DeleteClient(id uuid.UUID) error
}

type clientRepository struct {
	DB *gorm.DB
}

// NewClientRepository initializes a new client-organization repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{DB: db}
}

func (cr *clientRepository) CreateClient(client *models.ClientOrganization) (*models.ClientOrganization, error) {
	if client.Status == "" {
		client.Status = models.ClientPending
	}
	if err := cr.DB.Create(client).Error; err != nil {
		config.Logger.Error("Failed to create client organization",
			zap.Error(err),
			zap.String("company", client.CompanyName))
		return nil, fmt.Errorf("failed to create client organization: %w", err)
	}
	return client, nil
}

func (cr *clientRepository) GetClientByID(id uuid.UUID) (*models.ClientOrganization, error) {
	var client models.ClientOrganization
	if err := cr.DB.Preload("AssignedEmployee").First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (cr *clientRepository) GetFilteredClients(limit, offset int, filters map[string]string) ([]models.ClientOrganization, int64, error) {
	var clients []models.ClientOrganization
	var total int64

	query := cr.DB.Model(&models.ClientOrganization{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if employee := filters["assigned_employee_id"]; employee != "" {
		query = query.Where("assigned_employee_id = ?", employee)
	}
	if search := filters["search"]; search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(company_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("updated_at DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (cr *clientRepository) UpdateClient(client *models.ClientOrganization) (*models.ClientOrganization, error) {
	if err := cr.DB.Save(client).Error; err != nil {
		config.Logger.Error("Failed to update client organization",
			zap.Error(err),
			zap.String("clientID", client.ID.String()))
		return nil, fmt.Errorf("failed to update client organization: %w", err)
	}
	return client, nil
}

// UpdateClientFields applies a column map update; used for the restricted
// client self-edit path where the allowed columns are filtered beforehand.
func (cr *clientRepository) UpdateClientFields(id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := cr.DB.Model(&models.ClientOrganization{}).
		Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update client organization: %w", err)
	}
	return nil
}

// DeleteClient hard-deletes the organization record. Dependent cases and
// documents are not removed here; that cleanup is an operational task.
func (cr *clientRepository) DeleteClient(id uuid.UUID) error {
	if err := cr.DB.Unscoped().Delete(&models.ClientOrganization{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete client organization: %w", err)
	}
	return nil
}
