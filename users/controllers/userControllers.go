package controllers

import (
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/policy"
	"horeca-compliance-backend/users/repositories"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserController struct {
	UserRepo repositories.UserRepository
	DB       *gorm.DB
}

type CreateUserRequest struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
}

// CreateUserController creates an internal staff account. Admin-only,
// enforced by the route group.
func (uc *UserController) CreateUserController(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	fieldErrors := fiber.Map{}
	if strings.TrimSpace(req.FirstName) == "" {
		fieldErrors["first_name"] = "First name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fieldErrors["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if req.Role != models.EmployeeRole && req.Role != models.AdminRole {
		fieldErrors["role"] = "Role must be employee or admin"
	}
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	actor := middleware.ActorFromContext(c)
	createdBy := actor.User.Email

	user := &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Password:  string(hash),
		Role:      req.Role,
		Active:    true,
		CreatedBy: &createdBy,
	}

	created, err := uc.UserRepo.CreateUser(user)
	if err != nil {
		config.Logger.Error("Failed to create user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create user",
		})
	}

	uc.logActivity(actor, models.ActionUserCreated, c.Path(), created.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created",
		"data":    created,
	})
}

func (uc *UserController) GetFilteredUsersController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	users, total, err := uc.UserRepo.GetFilteredUsers(params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch users", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, users, total, params),
	})
}

func (uc *UserController) RetrieveSingleUserController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	user, err := uc.UserRepo.GetUserByID(id)
	if err != nil {
		return notFound(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type UpdateUserRequest struct {
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Phone     *string      `json:"phone"`
	Role      *models.Role `json:"role"`
	Active    *bool        `json:"active"`
}

// UpdateUserController edits another principal's account. Role and active
// flag changes are the admin-only part; the route group enforces the gate.
func (uc *UserController) UpdateUserController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	user, err := uc.UserRepo.GetUserByID(id)
	if err != nil {
		return notFound(c)
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	roleChanged := false
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		if *req.Role != models.EmployeeRole && *req.Role != models.AdminRole {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "Role must be employee or admin",
			})
		}
		roleChanged = user.Role != *req.Role
		user.Role = *req.Role
	}
	if req.Active != nil {
		roleChanged = roleChanged || user.Active != *req.Active
		user.Active = *req.Active
	}

	updated, err := uc.UserRepo.UpdateUser(user)
	if err != nil {
		return internalError(c)
	}

	if roleChanged {
		uc.logActivity(middleware.ActorFromContext(c), models.ActionUserRoleChanged, c.Path(), updated.ID)
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

func (uc *UserController) DeleteUserController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if err := uc.UserRepo.DeleteUser(id); err != nil {
		config.Logger.Error("Failed to delete user", zap.Error(err), zap.String("userID", id.String()))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "message": "User deleted"})
}

func (uc *UserController) logActivity(actor *policy.Actor, action, path string, subjectID uuid.UUID) {
	entry := models.ActivityLog{
		Action:  action,
		Path:    path,
		Details: datatypes.JSON([]byte(`{"subject_id":"` + subjectID.String() + `"}`)),
	}
	if actor != nil && actor.User != nil {
		entry.ActorID = &actor.User.ID
		entry.ActorMail = actor.User.Email
	}
	if err := uc.DB.Create(&entry).Error; err != nil {
		config.Logger.Error("Failed to write activity log entry", zap.Error(err))
	}
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Not found",
	})
}
