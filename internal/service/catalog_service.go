package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/provisioning-service/internal/authz"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/repository"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// CatalogService manages the equipment and tariff catalog. All mutations are
// admin-only via the manageCatalog action.
type CatalogService struct {
	equipment repository.EquipmentRepository
	tariffs   repository.TariffRepository
}

// EquipmentInput describes a catalog entry payload.
type EquipmentInput struct {
	Name          string
	Category      string
	UnitPrice     int64
	StockQuantity int
	Condition     domain.EquipmentCondition
}

// TariffInput describes a tariff payload.
type TariffInput struct {
	Name         string
	MonthlyPrice int64
	SpeedMbps    int
	IsActive     bool
}

// NewCatalogService constructs the service.
func NewCatalogService(equipment repository.EquipmentRepository, tariffs repository.TariffRepository) *CatalogService {
	return &CatalogService{equipment: equipment, tariffs: tariffs}
}

// CreateEquipment adds a catalog entry.
func (s *CatalogService) CreateEquipment(ctx context.Context, actorRole domain.Role, input EquipmentInput) (*domain.EquipmentItem, error) {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return nil, err
	}
	if err := validateEquipmentInput(input); err != nil {
		return nil, err
	}
	item := &domain.EquipmentItem{
		Name:          strings.TrimSpace(input.Name),
		Category:      strings.TrimSpace(input.Category),
		UnitPrice:     input.UnitPrice,
		StockQuantity: input.StockQuantity,
		Condition:     input.Condition,
	}
	if item.Condition == "" {
		item.Condition = domain.EquipmentConditionNew
	}
	if err := s.equipment.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// UpdateEquipment replaces a catalog entry's fields.
func (s *CatalogService) UpdateEquipment(ctx context.Context, actorRole domain.Role, id string, input EquipmentInput) (*domain.EquipmentItem, error) {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return nil, err
	}
	if err := validateEquipmentInput(input); err != nil {
		return nil, err
	}
	item, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment item", map[string]any{"equipment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	item.Name = strings.TrimSpace(input.Name)
	item.Category = strings.TrimSpace(input.Category)
	item.UnitPrice = input.UnitPrice
	item.StockQuantity = input.StockQuantity
	if input.Condition != "" {
		item.Condition = input.Condition
	}
	if err := s.equipment.Update(ctx, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment item", map[string]any{"equipment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// DeleteEquipment removes a catalog entry.
func (s *CatalogService) DeleteEquipment(ctx context.Context, actorRole domain.Role, id string) error {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return err
	}
	if err := s.equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("equipment item", map[string]any{"equipment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetEquipment fetches a single catalog entry.
func (s *CatalogService) GetEquipment(ctx context.Context, id string) (*domain.EquipmentItem, error) {
	item, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment item", map[string]any{"equipment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// ListEquipment returns catalog entries.
func (s *CatalogService) ListEquipment(ctx context.Context, limit, offset int) ([]domain.EquipmentItem, error) {
	items, err := s.equipment.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// CreateTariff adds a tariff.
func (s *CatalogService) CreateTariff(ctx context.Context, actorRole domain.Role, input TariffInput) (*domain.Tariff, error) {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	tariff := &domain.Tariff{
		Name:         strings.TrimSpace(input.Name),
		MonthlyPrice: input.MonthlyPrice,
		SpeedMbps:    input.SpeedMbps,
		IsActive:     input.IsActive,
	}
	if err := s.tariffs.Create(ctx, tariff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tariff, nil
}

// UpdateTariff replaces a tariff's fields.
func (s *CatalogService) UpdateTariff(ctx context.Context, actorRole domain.Role, id string, input TariffInput) (*domain.Tariff, error) {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	tariff, err := s.tariffs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tariff", map[string]any{"tariff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	tariff.Name = strings.TrimSpace(input.Name)
	tariff.MonthlyPrice = input.MonthlyPrice
	tariff.SpeedMbps = input.SpeedMbps
	tariff.IsActive = input.IsActive
	if err := s.tariffs.Update(ctx, tariff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tariff", map[string]any{"tariff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tariff, nil
}

// DeleteTariff removes a tariff.
func (s *CatalogService) DeleteTariff(ctx context.Context, actorRole domain.Role, id string) error {
	if err := authz.Require(actorRole, authz.ActionManageCatalog); err != nil {
		return err
	}
	if err := s.tariffs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("tariff", map[string]any{"tariff_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListTariffs returns tariffs.
func (s *CatalogService) ListTariffs(ctx context.Context, limit, offset int) ([]domain.Tariff, error) {
	tariffs, err := s.tariffs.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tariffs, nil
}

func validateEquipmentInput(input EquipmentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if input.StockQuantity < 0 {
		return apperrors.NewValidationError("stock_quantity must be non-negative", map[string]any{"stock_quantity": input.StockQuantity})
	}
	if input.UnitPrice < 0 {
		return apperrors.NewValidationError("unit_price must be non-negative", map[string]any{"unit_price": input.UnitPrice})
	}
	return nil
}
