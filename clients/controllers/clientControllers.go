package controllers

import (
	"errors"
	"strings"

	"horeca-compliance-backend/clients/repositories"
	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/policy"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientController struct {
	ClientRepo repositories.ClientRepository
	DB         *gorm.DB
}

type CreateClientRequest struct {
	CompanyName        string              `json:"company_name"`
	ContactName        string              `json:"contact_name"`
	Email              string              `json:"email"`
	Phone              *string             `json:"phone"`
	Street             *string             `json:"street"`
	PostalCode         *string             `json:"postal_code"`
	City               *string             `json:"city"`
	RegistrationNumber *string             `json:"registration_number"`
	Notes              *string             `json:"notes"`
	Status             models.ClientStatus `json:"status"`
	AssignedEmployeeID *uuid.UUID          `json:"assigned_employee_id"`
}

// CreateClientController registers a client organization. Staff only.
func (cc *ClientController) CreateClientController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.IsStaff() {
		return forbidden(c)
	}

	var req CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}

	fieldErrors := fiber.Map{}
	if strings.TrimSpace(req.CompanyName) == "" {
		fieldErrors["company_name"] = "Company name is required"
	}
	if strings.TrimSpace(req.ContactName) == "" {
		fieldErrors["contact_name"] = "Contact name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	}
	if len(fieldErrors) > 0 {
		return validationFailed(c, fieldErrors)
	}

	createdBy := actor.User.Email
	client := &models.ClientOrganization{
		CompanyName:        strings.TrimSpace(req.CompanyName),
		ContactName:        strings.TrimSpace(req.ContactName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              req.Phone,
		Street:             req.Street,
		PostalCode:         req.PostalCode,
		City:               req.City,
		RegistrationNumber: req.RegistrationNumber,
		Notes:              req.Notes,
		Status:             req.Status,
		AssignedEmployeeID: req.AssignedEmployeeID,
		CreatedBy:          &createdBy,
	}

	created, err := cc.ClientRepo.CreateClient(client)
	if err != nil {
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Client organization created",
		"data":    created,
	})
}

// GetFilteredClientsController lists organizations for staff. Client actors
// get a single-element list containing their own organization.
func (cc *ClientController) GetFilteredClientsController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	if actor.IsClient() {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"items": []models.ClientOrganization{*actor.Client},
			},
		})
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	clients, total, err := cc.ClientRepo.GetFilteredClients(params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch client organizations", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, clients, total, params),
	})
}

func (cc *ClientController) GetClientController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	// Row scoping: a client may only see its own organization. Forbidden and
	// absent are indistinguishable.
	if !actor.OwnsRow(id) {
		return notFound(c)
	}

	client, err := cc.ClientRepo.GetClientByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": client})
}

// UpdateClientController: staff may edit all fields; a client actor may edit
// only the allow-listed contact fields of its own organization.
func (cc *ClientController) UpdateClientController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}
	if !actor.OwnsRow(id) {
		return notFound(c)
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil || len(updates) == 0 {
		return badPayload(c)
	}

	if actor.IsClient() {
		updates = policy.FilterClientOrgUpdate(updates)
		if len(updates) == 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "No editable fields in request",
			})
		}
	} else {
		// Staff edits go through the column map too, but never the ID or
		// audit columns.
		delete(updates, "id")
		delete(updates, "created_at")
		delete(updates, "created_by")
		if status, ok := updates["status"].(string); ok {
			s := models.ClientStatus(status)
			if s != models.ClientActive && s != models.ClientInactive && s != models.ClientPending {
				return validationFailed(c, fiber.Map{"status": "Invalid status"})
			}
		}
	}

	if err := cc.ClientRepo.UpdateClientFields(id, updates); err != nil {
		config.Logger.Error("Failed to update client organization", zap.Error(err))
		return internalError(c)
	}

	client, err := cc.ClientRepo.GetClientByID(id)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": client})
}

// DeleteClientController hard-deletes an organization. Admin only (route
// gate); logged to the activity log.
func (cc *ClientController) DeleteClientController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if _, err := cc.ClientRepo.GetClientByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}

	if err := cc.ClientRepo.DeleteClient(id); err != nil {
		config.Logger.Error("Failed to delete client organization", zap.Error(err))
		return internalError(c)
	}

	entry := models.ActivityLog{
		Action:    models.ActionClientDeleted,
		Path:      c.Path(),
		ActorID:   &actor.User.ID,
		ActorMail: actor.User.Email,
	}
	if err := cc.DB.Create(&entry).Error; err != nil {
		config.Logger.Error("Failed to write activity log entry", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Client organization deleted"})
}

func badPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request payload",
	})
}

func validationFailed(c *fiber.Ctx, fieldErrors fiber.Map) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Forbidden",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Not found",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong",
	})
}
