package router

import (
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/tasks/controllers"
	"horeca-compliance-backend/tasks/repositories"

	"github.com/gofiber/fiber/v2"
)

func TaskRouterInit(
	app *fiber.App,
	taskRepo repositories.TaskRepository,
	appContext *middleware.AppContext,
) {
	taskController := &controllers.TaskController{TaskRepo: taskRepo}

	taskRoutes := app.Group("/api/v1/tasks", middleware.ProtectedRoute(appContext))
	{
		taskRoutes.Get("/filtered", taskController.GetFilteredTasksController)
		taskRoutes.Post("/", taskController.CreateTaskController)
		taskRoutes.Get("/:id", taskController.GetTaskController)
		taskRoutes.Patch("/:id", taskController.UpdateTaskController)
		taskRoutes.Delete("/:id", taskController.DeleteTaskController)
	}
}
