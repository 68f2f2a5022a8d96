package controllers

import (
	"errors"
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/documents/repositories"
	"horeca-compliance-backend/documents/services"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DocumentController struct {
	Service *services.DocumentService
}

// UploadDocumentController accepts a multipart upload. The file part is named
// "file"; the remaining params come as form fields.
func (dc *DocumentController) UploadDocumentController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanUploadDocument() {
		return forbidden(c)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A file part named 'file' is required",
		})
	}

	params := services.UploadParams{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Category: models.DocumentCategory(c.FormValue("category")),
	}
	if params.Category == "" {
		params.Category = models.DocGeneral
	}
	if !models.IsValidDocumentCategory(params.Category) {
		return validationFailed(c, fiber.Map{"category": "Invalid category"})
	}

	if raw := c.FormValue("case_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return validationFailed(c, fiber.Map{"case_id": "Invalid case id"})
		}
		params.CaseID = &id
	}
	if raw := c.FormValue("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return validationFailed(c, fiber.Map{"client_id": "Invalid client id"})
		}
		params.ClientID = &id
	}
	if notes := strings.TrimSpace(c.FormValue("notes")); notes != "" {
		params.Notes = &notes
	}

	// For client actors the service pins client_id to their own organization,
	// so attaching to a foreign case trips the consistency check below.
	doc, err := dc.Service.Upload(*actor, header, params)
	if errors.Is(err, repositories.ErrInconsistentAttachment) {
		return validationFailed(c, fiber.Map{"case_id": "Case does not belong to the given client"})
	}
	if err != nil {
		config.Logger.Error("Failed to upload document", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Document uploaded",
		"data":    doc,
	})
}

func (dc *DocumentController) GetFilteredDocumentsController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	docs, total, err := dc.Service.Repo.GetFilteredDocuments(*actor, params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch documents", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, docs, total, params),
	})
}

func (dc *DocumentController) GetDocumentController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	doc, err := dc.Service.Repo.GetDocumentByID(*actor, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": doc})
}

func (dc *DocumentController) DownloadDocumentController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	doc, reader, err := dc.Service.Download(*actor, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		config.Logger.Error("Failed to download document", zap.Error(err))
		return internalError(c)
	}
	defer reader.Close()

	if doc.MimeType != "" {
		c.Set(fiber.HeaderContentType, doc.MimeType)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Name+`"`)
	return c.SendStream(reader)
}

func (dc *DocumentController) DeleteDocumentController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.IsStaff() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if err := dc.Service.Delete(*actor, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	} else if err != nil {
		config.Logger.Error("Failed to delete document", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Document deleted"})
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
