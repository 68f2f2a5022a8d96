package router

import (
	"horeca-compliance-backend/clients/controllers"
	"horeca-compliance-backend/clients/repositories"
	"horeca-compliance-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ClientInitRoutes(
	app *fiber.App,
	clientRepo repositories.ClientRepository,
	appContext *middleware.AppContext,
	db *gorm.DB,
) {
	clientController := &controllers.ClientController{ClientRepo: clientRepo, DB: db}

	clientRoutes := app.Group("/api/v1/clients", middleware.ProtectedRoute(appContext))
	{
		clientRoutes.Get("/filtered", clientController.GetFilteredClientsController)
		clientRoutes.Post("/", clientController.CreateClientController)
		clientRoutes.Get("/:id", clientController.GetClientController)
		clientRoutes.Patch("/:id", clientController.UpdateClientController)

		// Hard delete is admin-only.
		clientRoutes.Delete("/:id", middleware.RequireAdmin(appContext), clientController.DeleteClientController)
	}
}
