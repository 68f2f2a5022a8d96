package router

import (
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/requests/controllers"
	"horeca-compliance-backend/requests/repositories"

	"github.com/gofiber/fiber/v2"
)

func RequestRouterInit(
	app *fiber.App,
	requestRepo repositories.RequestRepository,
	appContext *middleware.AppContext,
) {
	requestController := &controllers.RequestController{RequestRepo: requestRepo}

	requestRoutes := app.Group("/api/v1/requests", middleware.ProtectedRoute(appContext))
	{
		requestRoutes.Get("/filtered", requestController.GetFilteredRequestsController)
		requestRoutes.Post("/", requestController.CreateRequestController)
		requestRoutes.Get("/:id", requestController.GetRequestController)
		requestRoutes.Post("/:id/approve", requestController.ApproveRequestController)
		requestRoutes.Post("/:id/reject", requestController.RejectRequestController)
	}
}
