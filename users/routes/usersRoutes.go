package router

import (
	"context"

	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/token"
	"horeca-compliance-backend/users/controllers"
	"horeca-compliance-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func InitRoutes(
	app *fiber.App,
	userRepo repositories.UserRepository,
	ctx context.Context,
	redisClient *redis.Client,
	tokenMaker token.Maker,
	appContext *middleware.AppContext,
	db *gorm.DB,
	baseFrontendURL string,
) {
	authController := controllers.NewAuthController(
		userRepo, tokenMaker, ctx, redisClient, appContext, baseFrontendURL)
	userController := &controllers.UserController{UserRepo: userRepo, DB: db}
	adminController := &controllers.AdminController{DB: db}

	// Public routes (no authentication required)
	publicRoutes := app.Group("/api/v1")
	{
		publicRoutes.Post("/auth/login", authController.Login)
		publicRoutes.Post("/auth/forgot-password-request", authController.ForgotPasswordRequestController)
		publicRoutes.Post("/auth/forgot-password-reset", authController.ForgotPasswordResetController)
	}

	// Protected routes (require authentication)
	protectedRoutes := app.Group("/api/v1")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		authRoutes := protectedRoutes.Group("/auth")
		{
			authRoutes.Get("/me", authController.Me)
			authRoutes.Post("/logout", authController.Logout)
			authRoutes.Post("/password", authController.UpdatePasswordController)
		}

		// User management is admin-only: creating staff accounts and
		// changing another principal's role or active flag.
		userRoutes := protectedRoutes.Group("/users", middleware.RequireAdmin(appContext))
		{
			userRoutes.Get("/filtered", userController.GetFilteredUsersController)
			userRoutes.Post("/", userController.CreateUserController)
			userRoutes.Get("/:id", userController.RetrieveSingleUserController)
			userRoutes.Patch("/:id", userController.UpdateUserController)
			userRoutes.Delete("/:id", userController.DeleteUserController)
		}

		adminRoutes := protectedRoutes.Group("/admin", middleware.RequireAdmin(appContext))
		{
			adminRoutes.Get("/activity-log", adminController.GetActivityLogController)
			adminRoutes.Get("/settings", adminController.GetSettingsController)
			adminRoutes.Put("/settings", adminController.UpdateSettingsController)
		}
	}
}
