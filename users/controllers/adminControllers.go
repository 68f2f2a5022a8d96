package controllers

import (
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminController serves the admin-only surfaces: the global activity log
// and system-wide settings.
type AdminController struct {
	DB *gorm.DB
}

func (ac *AdminController) GetActivityLogController(c *fiber.Ctx) error {
	params := pagination.ParseActivityLogParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	query := ac.DB.Model(&models.ActivityLog{})
	if action := params.Filters["action"]; action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return internalError(c)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").
		Limit(params.PageSize).Offset(params.Offset()).
		Find(&entries).Error; err != nil {
		config.Logger.Error("Failed to fetch activity log", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, entries, total, params),
	})
}

func (ac *AdminController) GetSettingsController(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := ac.DB.Order("key").Find(&settings).Error; err != nil {
		config.Logger.Error("Failed to fetch settings", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

func (ac *AdminController) UpdateSettingsController(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil || len(req.Settings) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	actor := middleware.ActorFromContext(c)
	updatedBy := actor.User.Email

	for key, value := range req.Settings {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		setting := models.Setting{Key: key, Value: value, UpdatedBy: &updatedBy}
		if err := ac.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			config.Logger.Error("Failed to upsert setting", zap.String("key", key), zap.Error(err))
			return internalError(c)
		}
	}

	entry := models.ActivityLog{
		Action:    models.ActionSettingsChanged,
		Path:      c.Path(),
		ActorID:   &actor.User.ID,
		ActorMail: actor.User.Email,
	}
	if err := ac.DB.Create(&entry).Error; err != nil {
		config.Logger.Error("Failed to write activity log entry", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Settings updated"})
}
