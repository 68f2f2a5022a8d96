package router

import (
	"horeca-compliance-backend/cases/controllers"
	"horeca-compliance-backend/cases/repositories"
	"horeca-compliance-backend/middleware"
	searchservices "horeca-compliance-backend/search/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CaseRouterInit(
	app *fiber.App,
	caseRepo repositories.CaseRepository,
	indexing searchservices.IndexingServiceInterface,
	appContext *middleware.AppContext,
	db *gorm.DB,
) {
	caseController := &controllers.CaseController{
		CaseRepo: caseRepo,
		Indexing: indexing,
		DB:       db,
	}

	caseRoutes := app.Group("/api/v1/cases", middleware.ProtectedRoute(appContext))
	{
		caseRoutes.Get("/filtered", caseController.GetFilteredCasesController)
		caseRoutes.Get("/export", caseController.ExportCasesController)
		caseRoutes.Post("/", caseController.CreateCaseController)
		caseRoutes.Get("/:id", caseController.GetCaseController)
		caseRoutes.Get("/:id/progress", caseController.GetCaseProgressController)
		caseRoutes.Patch("/:id", caseController.UpdateCaseController)

		// Hard delete is admin-only.
		caseRoutes.Delete("/:id", middleware.RequireAdmin(appContext), caseController.DeleteCaseController)
	}
}
