package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provisioning-service/internal/api/dto"
	"github.com/spec-kit/provisioning-service/internal/auth"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/repository"
	"github.com/spec-kit/provisioning-service/internal/service"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// ContractsHandler manages contract endpoints.
type ContractsHandler struct {
	service *service.ProvisioningService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(provisioningService *service.ProvisioningService) *ContractsHandler {
	return &ContractsHandler{service: provisioningService}
}

// GetContract GET /contracts/:id.
func (h *ContractsHandler) GetContract(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	contract, err := h.service.GetByID(c.UserContext(), principal.SubjectID, principal.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractResponse(contract)})
}

// ListContracts GET /contracts.
func (h *ContractsHandler) ListContracts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.ContractFilter{}
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return apperrors.NewValidationError("invalid active flag", nil)
		}
		filter.Active = &active
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	contracts, err := h.service.List(c.UserContext(), principal.SubjectID, principal.Role, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, contractResponse(&contracts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TerminateContract PATCH /contracts/:id/terminate-contract.
func (h *ContractsHandler) TerminateContract(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	contract, err := h.service.Terminate(c.UserContext(), principal.Role, principal.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractResponse(contract)})
}

func contractResponse(contract *domain.Contract) dto.ContractResponse {
	return dto.ContractResponse{
		ID:           contract.ID,
		CustomerID:   contract.CustomerID,
		AddressID:    contract.AddressID,
		TariffID:     contract.TariffID,
		EquipmentIDs: contract.EquipmentIDs,
		StartDate:    contract.StartDate,
		EndDate:      contract.EndDate,
		IsActive:     contract.IsActive,
		RequestID:    contract.RequestID,
		CreatedAt:    contract.CreatedAt,
	}
}
