package controllers

import (
	"errors"
	"fmt"
	"strings"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/requests/repositories"
	"horeca-compliance-backend/utils"
	"horeca-compliance-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RequestController struct {
	RequestRepo repositories.RequestRepository
}

type CreateRequestPayload struct {
	ClientID     uuid.UUID             `json:"client_id"`
	RequestType  models.CaseType       `json:"request_type"`
	Title        string                `json:"title"`
	Description  *string               `json:"description"`
	Municipality *string               `json:"municipality"`
	Urgency      models.RequestUrgency `json:"urgency"`
}

// CreateRequestController files a new permit request. Client actors always
// file for their own organization; staff must name the client.
func (rc *RequestController) CreateRequestController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanCreateRequest() {
		return forbidden(c)
	}

	var payload CreateRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return badPayload(c)
	}

	clientID := payload.ClientID
	if actor.IsClient() {
		clientID = actor.Client.ID
	}

	fieldErrors := fiber.Map{}
	if strings.TrimSpace(payload.Title) == "" {
		fieldErrors["title"] = "Title is required"
	}
	if clientID == uuid.Nil {
		fieldErrors["client_id"] = "Client is required"
	}
	if !models.IsRequestableCaseType(payload.RequestType) {
		fieldErrors["request_type"] = "This permit type cannot be requested"
	}
	if payload.Urgency != "" &&
		payload.Urgency != models.UrgencyNormal && payload.Urgency != models.UrgencyUrgent {
		fieldErrors["urgency"] = "Invalid urgency"
	}
	if len(fieldErrors) > 0 {
		return validationFailed(c, fieldErrors)
	}

	req := &models.ClientRequest{
		ClientID:     clientID,
		RequestType:  payload.RequestType,
		Title:        strings.TrimSpace(payload.Title),
		Description:  payload.Description,
		Municipality: payload.Municipality,
		Urgency:      payload.Urgency,
	}

	created, err := rc.RequestRepo.CreateRequest(req)
	if err != nil {
		config.Logger.Error("Failed to create client request", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Request submitted",
		"data":    created,
	})
}

func (rc *RequestController) GetFilteredRequestsController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	requests, total, err := rc.RequestRepo.GetFilteredRequests(*actor, params.PageSize, params.Offset(), params.Filters)
	if err != nil {
		config.Logger.Error("Failed to fetch client requests", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, requests, total, params),
	})
}

func (rc *RequestController) GetRequestController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	req, err := rc.RequestRepo.GetRequestByID(*actor, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "data": req})
}

// ApproveRequestController converts a request into a new case in intake.
// Staff only. The client gets a notification mail; a mail failure never rolls
// back the conversion.
func (rc *RequestController) ApproveRequestController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanReviewRequests() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	request, createdCase, err := rc.RequestRepo.ApproveRequest(actor.User, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if errors.Is(err, repositories.ErrAlreadyDecided) {
		return alreadyDecided(c)
	}
	if err != nil {
		config.Logger.Error("Failed to approve client request",
			zap.Error(err),
			zap.String("requestID", id.String()))
		return internalError(c)
	}

	if request.Client != nil {
		go notifyRequestApproved(request)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request approved and converted",
		"data": fiber.Map{
			"request": request,
			"case":    createdCase,
		},
	})
}

// RejectRequestController closes a request without a case. Staff only.
func (rc *RequestController) RejectRequestController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if !actor.CanReviewRequests() {
		return forbidden(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	request, err := rc.RequestRepo.RejectRequest(actor.User, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(c)
	}
	if errors.Is(err, repositories.ErrAlreadyDecided) {
		return alreadyDecided(c)
	}
	if err != nil {
		config.Logger.Error("Failed to reject client request",
			zap.Error(err),
			zap.String("requestID", id.String()))
		return internalError(c)
	}

	if request.Client != nil {
		go notifyRequestRejected(request)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request rejected",
		"data":    request,
	})
}

func notifyRequestApproved(request *models.ClientRequest) {
	body := fmt.Sprintf(
		`<p>Beste %s,</p>
<p>Uw aanvraag "%s" is goedgekeurd. Wij zijn een dossier gestart en nemen spoedig contact met u op.</p>
<p>Met vriendelijke groet,<br>Uw compliance-team</p>`,
		request.Client.ContactName, request.Title)
	if err := utils.SendEmail(request.Client.Email, "Uw aanvraag is goedgekeurd", body); err != nil {
		config.Logger.Warn("Failed to send approval notification",
			zap.Error(err),
			zap.String("requestID", request.ID.String()))
	}
}

func notifyRequestRejected(request *models.ClientRequest) {
	body := fmt.Sprintf(
		`<p>Beste %s,</p>
<p>Uw aanvraag "%s" kan helaas niet in behandeling worden genomen. Neem contact met ons op voor toelichting.</p>
<p>Met vriendelijke groet,<br>Uw compliance-team</p>`,
		request.Client.ContactName, request.Title)
	if err := utils.SendEmail(request.Client.Email, "Uw aanvraag is afgewezen", body); err != nil {
		config.Logger.Warn("Failed to send rejection notification",
			zap.Error(err),
			zap.String("requestID", request.ID.String()))
	}
}

func alreadyDecided(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"success": false,
		"message": "Request has already been decided",
	})
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
