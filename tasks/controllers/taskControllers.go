package controllers

import (
	"errors"
	"strings"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/tasks/repositories"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tasks are internal work items; every endpoint here is staff only.
type TaskController struct {
	TaskRepo repositories.TaskRepository
}

type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.CasePriority `json:"priority"`
	CaseID      *uuid.UUID          `json:"case_id"`
	AssigneeID  *uuid.UUID          `json:"assignee_id"`
	DueDate     *time.Time          `json:"due_date"`
}

func (tc *TaskController) CreateTaskController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanManageTasks() {
		return forbidden(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}

	if strings.TrimSpace(req.Title) == "" {
		return validationFailed(c, fiber.Map{"title": "Title is required"})
	}

	task := &models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CaseID:      req.CaseID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   actor.User.ID,
		DueDate:     req.DueDate,
	}

	created, err := tc.TaskRepo.CreateTask(task)
	if errors.Is(err, repositories.ErrInvalidTaskStatus) {
		return validationFailed(c, fiber.Map{"status": "Invalid status"})
	}
	if err != nil {
		config.Logger.Error("Failed to create task", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Task created",
		"data":    created,
	})
}

func (tc *TaskController) GetFilteredTasksController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanManageTasks() {
		return forbidden(c)
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	tasks, total, err := tc.TaskRepo.GetFilteredTasks(params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch tasks", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, tasks, total, params),
	})
}

func (tc *TaskController) GetTaskController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanManageTasks() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	task, err := tc.TaskRepo.GetTaskByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": task})
}

func (tc *TaskController) UpdateTaskController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanManageTasks() {
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

	updated, err := tc.TaskRepo.UpdateTask(id, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if errors.Is(err, repositories.ErrInvalidTaskStatus) {
		return validationFailed(c, fiber.Map{"status": "Invalid status"})
	}
	if err != nil {
		config.Logger.Error("Failed to update task", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

func (tc *TaskController) DeleteTaskController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanManageTasks() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if _, err := tc.TaskRepo.GetTaskByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}

	if err := tc.TaskRepo.DeleteTask(id); err != nil {
		config.Logger.Error("Failed to delete task", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Task deleted"})
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
