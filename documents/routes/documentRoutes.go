package router

import (
	"horeca-compliance-backend/documents/controllers"
	"horeca-compliance-backend/documents/services"
	"horeca-compliance-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func DocumentRouterInit(
	app *fiber.App,
	documentService *services.DocumentService,
	appContext *middleware.AppContext,
) {
	documentController := &controllers.DocumentController{Service: documentService}

	documentRoutes := app.Group("/api/v1/documents", middleware.ProtectedRoute(appContext))
	{
		documentRoutes.Get("/filtered", documentController.GetFilteredDocumentsController)
		documentRoutes.Post("/", documentController.UploadDocumentController)
		documentRoutes.Get("/:id", documentController.GetDocumentController)
		documentRoutes.Get("/:id/download", documentController.DownloadDocumentController)
		documentRoutes.Delete("/:id", documentController.DeleteDocumentController)
	}
}
