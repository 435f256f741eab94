package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provisioning-service/internal/api/dto"
	"github.com/spec-kit/provisioning-service/internal/auth"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/repository"
	"github.com/spec-kit/provisioning-service/internal/service"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// RequestsHandler manages connection request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// CreateRequest POST /connection-requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.service.Create(c.UserContext(), principal.SubjectID, service.RequestCreateInput{
		AddressID: req.AddressID,
		TariffID:  req.TariffID,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(request)})
}

// GetRequest GET /connection-requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	request, err := h.service.GetByID(c.UserContext(), principal.SubjectID, principal.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(request)})
}

// ListRequests GET /connection-requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.RequestFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.RequestStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	requests, err := h.service.List(c.UserContext(), principal.SubjectID, principal.Role, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, requestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ApproveRequest POST /connection-requests/:id/approve.
func (h *RequestsHandler) ApproveRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ApproveRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	approval := service.ApprovalInput{
		EquipmentIDs: req.EquipmentIDs,
		EndDate:      req.EndDate,
	}
	if req.StartDate != nil {
		approval.StartDate = *req.StartDate
	}
	request, contract, err := h.service.Decide(c.UserContext(), principal.SubjectID, principal.Role, c.Params("id"), service.OutcomeApprove, approval)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApproveRequestResponse{
		Request:  requestResponse(request),
		Contract: contractResponse(contract),
	}})
}

// DeclineRequest PATCH /connection-requests/:id/decline.
func (h *RequestsHandler) DeclineRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	request, _, err := h.service.Decide(c.UserContext(), principal.SubjectID, principal.Role, c.Params("id"), service.OutcomeReject, service.ApprovalInput{})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(request)})
}

func requestResponse(request *domain.ConnectionRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:         request.ID,
		CustomerID: request.CustomerID,
		AddressID:  request.AddressID,
		TariffID:   request.TariffID,
		Notes:      request.Notes,
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt,
		DecidedAt:  request.DecidedAt,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
