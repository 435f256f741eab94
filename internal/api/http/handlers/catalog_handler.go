package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provisioning-service/internal/api/dto"
	"github.com/spec-kit/provisioning-service/internal/auth"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/service"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// CatalogHandler manages equipment and tariff catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// CreateEquipment POST /equipment.
func (h *CatalogHandler) CreateEquipment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateEquipment(c.UserContext(), principal.Role, equipmentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": equipmentResponse(item)})
}

// UpdateEquipment PUT /equipment/:id.
func (h *CatalogHandler) UpdateEquipment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateEquipment(c.UserContext(), principal.Role, c.Params("id"), equipmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponse(item)})
}

// DeleteEquipment DELETE /equipment/:id.
func (h *CatalogHandler) DeleteEquipment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteEquipment(c.UserContext(), principal.Role, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetEquipment GET /equipment/:id.
func (h *CatalogHandler) GetEquipment(c *fiber.Ctx) error {
	item, err := h.service.GetEquipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponse(item)})
}

// ListEquipment GET /equipment.
func (h *CatalogHandler) ListEquipment(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	items, err := h.service.ListEquipment(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	resp := make([]dto.EquipmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, equipmentResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateTariff POST /tariffs.
func (h *CatalogHandler) CreateTariff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TariffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tariff, err := h.service.CreateTariff(c.UserContext(), principal.Role, tariffInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": tariffResponse(tariff)})
}

// UpdateTariff PUT /tariffs/:id.
func (h *CatalogHandler) UpdateTariff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TariffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tariff, err := h.service.UpdateTariff(c.UserContext(), principal.Role, c.Params("id"), tariffInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tariffResponse(tariff)})
}

// DeleteTariff DELETE /tariffs/:id.
func (h *CatalogHandler) DeleteTariff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteTariff(c.UserContext(), principal.Role, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListTariffs GET /tariffs.
func (h *CatalogHandler) ListTariffs(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	tariffs, err := h.service.ListTariffs(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	resp := make([]dto.TariffResponse, 0, len(tariffs))
	for i := range tariffs {
		resp = append(resp, tariffResponse(&tariffs[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func equipmentInput(req dto.EquipmentRequest) service.EquipmentInput {
	return service.EquipmentInput{
		Name:          req.Name,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		Condition:     domain.EquipmentCondition(req.Condition),
	}
}

func equipmentResponse(item *domain.EquipmentItem) dto.EquipmentResponse {
	return dto.EquipmentResponse{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		UnitPrice:     item.UnitPrice,
		StockQuantity: item.StockQuantity,
		Condition:     string(item.Condition),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func tariffInput(req dto.TariffRequest) service.TariffInput {
	return service.TariffInput{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		SpeedMbps:    req.SpeedMbps,
		IsActive:     req.IsActive,
	}
}

func tariffResponse(tariff *domain.Tariff) dto.TariffResponse {
	return dto.TariffResponse{
		ID:           tariff.ID,
		Name:         tariff.Name,
		MonthlyPrice: tariff.MonthlyPrice,
		SpeedMbps:    tariff.SpeedMbps,
		IsActive:     tariff.IsActive,
		CreatedAt:    tariff.CreatedAt,
		UpdatedAt:    tariff.UpdatedAt,
	}
}
