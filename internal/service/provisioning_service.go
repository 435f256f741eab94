package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/provisioning-service/internal/authz"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/events"
	"github.com/spec-kit/provisioning-service/internal/repository"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// ProvisioningService creates contracts from approved requests and owns
// contract termination.
type ProvisioningService struct {
	contracts  repository.ContractRepository
	inventory  *InventoryService
	dispatcher events.Dispatcher
}

// ProvisioningDependencies bundles collaborators for the service.
type ProvisioningDependencies struct {
	ContractRepo repository.ContractRepository
	Inventory    *InventoryService
	Dispatcher   events.Dispatcher
}

// ContractInput describes a contract to provision.
type ContractInput struct {
	CustomerID   string
	AddressID    string
	TariffID     string
	EquipmentIDs []string
	StartDate    time.Time
	EndDate      *time.Time
	RequestID    *string
}

// NewProvisioningService constructs the service.
func NewProvisioningService(deps ProvisioningDependencies) *ProvisioningService {
	return &ProvisioningService{
		contracts:  deps.ContractRepo,
		inventory:  deps.Inventory,
		dispatcher: deps.Dispatcher,
	}
}

// Create reserves every requested equipment item before persisting the
// contract. If any reservation fails, the reservations already made in this
// call are released and no contract row is written; if persisting the
// contract fails, all reservations are released. Either both the contract and
// its reservations exist, or neither does.
func (s *ProvisioningService) Create(ctx context.Context, actor events.Actor, input ContractInput) (*domain.Contract, error) {
	if input.CustomerID == "" || input.AddressID == "" || input.TariffID == "" {
		return nil, apperrors.NewValidationError("customer_id, address_id, tariff_id required", nil)
	}

	reservations := make([]*domain.Reservation, 0, len(input.EquipmentIDs))
	for _, equipmentID := range input.EquipmentIDs {
		reservation, err := s.inventory.Reserve(ctx, equipmentID, 1)
		if err != nil {
			s.releaseAll(ctx, reservations)
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	contract := &domain.Contract{
		CustomerID:   input.CustomerID,
		AddressID:    input.AddressID,
		TariffID:     input.TariffID,
		EquipmentIDs: input.EquipmentIDs,
		StartDate:    startDate,
		EndDate:      input.EndDate,
		IsActive:     true,
		RequestID:    input.RequestID,
	}

	reservationIDs := make([]string, 0, len(reservations))
	for _, reservation := range reservations {
		reservationIDs = append(reservationIDs, reservation.ID)
	}
	if err := s.contracts.Create(ctx, contract, reservationIDs); err != nil {
		s.releaseAll(ctx, reservations)
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.EventContractCreated, contract.ID, events.ContractCreatedPayload{
		CustomerID:   contract.CustomerID,
		TariffID:     contract.TariffID,
		EquipmentIDs: contract.EquipmentIDs,
		RequestID:    contract.RequestID,
	})
	return contract, nil
}

// Terminate deactivates an active contract. Repeated calls converge on the
// same terminal state: the first one sets end_date, later ones get
// ALREADY_TERMINATED and change nothing. Equipment is not returned to stock.
func (s *ProvisioningService) Terminate(ctx context.Context, actorRole domain.Role, actorID, contractID string) (*domain.Contract, error) {
	if err := authz.Require(actorRole, authz.ActionTerminateContract); err != nil {
		return nil, err
	}

	endDate := time.Now()
	ok, err := s.contracts.Terminate(ctx, contractID, endDate)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		if _, err := s.contracts.GetByID(ctx, contractID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": contractID})
			}
			return nil, apperrors.MapError(err)
		}
		return nil, apperrors.NewAlreadyTerminated(contractID)
	}

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Actor{SubjectID: actorID, Role: actorRole}, events.EventContractTerminated, contract.ID, events.ContractTerminatedPayload{
		EndDate: endDate,
	})
	return contract, nil
}

// GetByID fetches a contract, enforcing customer ownership.
func (s *ProvisioningService) GetByID(ctx context.Context, actorID string, actorRole domain.Role, contractID string) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": contractID})
		}
		return nil, apperrors.MapError(err)
	}
	if actorRole == domain.RoleCustomer && contract.CustomerID != actorID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return contract, nil
}

// List returns contracts visible to the actor. Customers see their own only.
func (s *ProvisioningService) List(ctx context.Context, actorID string, actorRole domain.Role, filter repository.ContractFilter) ([]domain.Contract, error) {
	if actorRole == domain.RoleCustomer {
		filter.CustomerID = &actorID
	}
	contracts, err := s.contracts.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contracts, nil
}

func (s *ProvisioningService) releaseAll(ctx context.Context, reservations []*domain.Reservation) {
	for _, reservation := range reservations {
		_ = s.inventory.Release(ctx, reservation.ID)
	}
}

func (s *ProvisioningService) publish(ctx context.Context, actor events.Actor, eventType events.EventType, entityID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
