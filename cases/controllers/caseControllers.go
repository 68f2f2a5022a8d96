package controllers

import (
	"errors"
	"strings"
	"time"

	"horeca-compliance-backend/cases/repositories"
	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	searchservices "horeca-compliance-backend/search/services"
	"horeca-compliance-backend/utils"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CaseController struct {
	CaseRepo repositories.CaseRepository
	Indexing searchservices.IndexingServiceInterface
	DB       *gorm.DB
}

type CreateCaseRequest struct {
	ClientID            uuid.UUID           `json:"client_id"`
	Title               string              `json:"title"`
	Description         *string             `json:"description"`
	CaseType            models.CaseType     `json:"case_type"`
	Status              models.CaseStatus   `json:"status"`
	Priority            models.CasePriority `json:"priority"`
	Deadline            *time.Time          `json:"deadline"`
	Municipality        *string             `json:"municipality"`
	GovernmentReference *string             `json:"government_reference"`
	AssignedEmployeeID  *uuid.UUID          `json:"assigned_employee_id"`
}

// CreateCaseController opens a permit case. Staff only.
func (cc *CaseController) CreateCaseController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanCreateCase() {
		return forbidden(c)
	}

	var req CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}

	fieldErrors := fiber.Map{}
	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.ClientID == uuid.Nil {
		fieldErrors["client_id"] = "Client is required"
	}
	if !models.IsValidCaseType(req.CaseType) {
		fieldErrors["case_type"] = "Invalid case type"
	}
	if req.Status != "" && !models.IsValidCaseStatus(req.Status) {
		fieldErrors["status"] = "Invalid status"
	}
	if req.Priority != "" && !models.IsValidCasePriority(req.Priority) {
		fieldErrors["priority"] = "Invalid priority"
	}
	if len(fieldErrors) > 0 {
		return validationFailed(c, fieldErrors)
	}

	createdBy := actor.User.Email
	cs := &models.Case{
		ClientID:            req.ClientID,
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		CaseType:            req.CaseType,
		Status:              req.Status,
		Priority:            req.Priority,
		Deadline:            req.Deadline,
		Municipality:        req.Municipality,
		GovernmentReference: req.GovernmentReference,
		AssignedEmployeeID:  req.AssignedEmployeeID,
		CreatedBy:           &createdBy,
	}

	created, err := cc.CaseRepo.CreateCase(nil, cs)
	if err != nil {
		config.Logger.Error("Failed to create case", zap.Error(err))
		return internalError(c)
	}

	if err := cc.Indexing.IndexDocument(searchservices.CaseIndex, created.ID.String(),
		searchservices.NewCaseSearchDoc(created)); err != nil {
		config.Logger.Warn("Failed to index case", zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Case created",
		"data":    created,
	})
}

func (cc *CaseController) GetFilteredCasesController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	cases, total, err := cc.CaseRepo.GetFilteredCases(*actor, params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch cases", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, cases, total, params),
	})
}

func (cc *CaseController) GetCaseController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	cs, err := cc.CaseRepo.GetCaseByID(*actor, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": cs})
}

// GetCaseProgressController returns the status timeline for the client
// portal: completed/current/pending steps, plus the action-required and
// rejection banners.
func (cc *CaseController) GetCaseProgressController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	cs, err := cc.CaseRepo.GetCaseByID(*actor, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    models.ComputeCaseProgress(cs.Status),
	})
}

// UpdateCaseController edits a case, including status. Staff only; the
// owning client never changes.
func (cc *CaseController) UpdateCaseController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanEditCase() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil || len(updates) == 0 {
		return badPayload(c)
	}

	updated, err := cc.CaseRepo.UpdateCase(*actor, id, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if errors.Is(err, repositories.ErrInvalidStatus) {
		return validationFailed(c, fiber.Map{"status": "Invalid status"})
	}
	if err != nil {
		config.Logger.Error("Failed to update case", zap.Error(err))
		return internalError(c)
	}

	if err := cc.Indexing.IndexDocument(searchservices.CaseIndex, updated.ID.String(),
		searchservices.NewCaseSearchDoc(updated)); err != nil {
		config.Logger.Warn("Failed to re-index case", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

// DeleteCaseController hard-deletes a case. Admin only (route gate).
func (cc *CaseController) DeleteCaseController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if _, err := cc.CaseRepo.GetCaseByID(*actor, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}

	if err := cc.CaseRepo.DeleteCase(id); err != nil {
		config.Logger.Error("Failed to delete case", zap.Error(err))
		return internalError(c)
	}

	if err := cc.Indexing.DeleteDocument(searchservices.CaseIndex, id.String()); err != nil {
		config.Logger.Warn("Failed to remove case from index", zap.Error(err))
	}

	entry := models.ActivityLog{
		Action:    models.ActionCaseDeleted,
		Path:      c.Path(),
		ActorID:   &actor.User.ID,
		ActorMail: actor.User.Email,
	}
	if err := cc.DB.Create(&entry).Error; err != nil {
		config.Logger.Error("Failed to write activity log entry", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Case deleted"})
}

// ExportCasesController streams the filtered case list as an Excel workbook.
// Staff only.
func (cc *CaseController) ExportCasesController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.IsStaff() {
		return forbidden(c)
	}

	params := pagination.ParsePaginationParams(c)
	cases, err := cc.CaseRepo.GetCasesForExport(*actor, params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch cases for export", zap.Error(err))
		return internalError(c)
	}

	file, err := utils.BuildCaseExport(cases)
	if err != nil {
		config.Logger.Error("Failed to build case export", zap.Error(err))
		return internalError(c)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cases.xlsx"`)
	return file.Write(c.Response().BodyWriter())
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
