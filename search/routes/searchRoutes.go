package router

import (
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitSearchRoutes(
	app *fiber.App,
	searchController *controllers.SearchController,
	appContext *middleware.AppContext,
) {
	searchRoutes := app.Group("/api/v1/search", middleware.ProtectedRoute(appContext))
	{
		searchRoutes.Get("/cases", searchController.SearchCasesController)
		searchRoutes.Get("/clients", searchController.SearchClientsController)
	}
}
