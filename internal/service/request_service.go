package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/provisioning-service/internal/authz"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/events"
	"github.com/spec-kit/provisioning-service/internal/repository"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// DecisionOutcome is the staff verdict on a connection request.
type DecisionOutcome string

const (
	OutcomeApprove DecisionOutcome = "approve"
	OutcomeReject  DecisionOutcome = "reject"
)

// RequestService owns the connection request state machine and triggers
// contract provisioning on approval.
type RequestService struct {
	requests     repository.RequestRepository
	provisioning *ProvisioningService
	dispatcher   events.Dispatcher
}

// RequestDependencies bundles collaborators for the service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	Provisioning *ProvisioningService
	Dispatcher   events.Dispatcher
}

// RequestCreateInput describes a new connection request.
type RequestCreateInput struct {
	AddressID string
	TariffID  string
	Notes     string
}

// ApprovalInput carries the approver's equipment selection and contract dates.
type ApprovalInput struct {
	EquipmentIDs []string
	StartDate    time.Time
	EndDate      *time.Time
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:     deps.RequestRepo,
		provisioning: deps.Provisioning,
		dispatcher:   deps.Dispatcher,
	}
}

// Create registers a customer's connection request.
func (s *RequestService) Create(ctx context.Context, customerID string, input RequestCreateInput) (*domain.ConnectionRequest, error) {
	if input.AddressID == "" || input.TariffID == "" {
		return nil, apperrors.NewValidationError("address_id and tariff_id required", nil)
	}
	request := &domain.ConnectionRequest{
		CustomerID: customerID,
		AddressID:  input.AddressID,
		TariffID:   input.TariffID,
		Notes:      strings.TrimSpace(input.Notes),
		Status:     domain.RequestStatusNew,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Actor{SubjectID: customerID, Role: domain.RoleCustomer}, events.EventRequestCreated, request.ID, events.RequestCreatedPayload{
		CustomerID: request.CustomerID,
		AddressID:  request.AddressID,
		TariffID:   request.TariffID,
	})
	return request, nil
}

// GetByID fetches a request, enforcing customer ownership.
func (s *RequestService) GetByID(ctx context.Context, actorID string, actorRole domain.Role, requestID string) (*domain.ConnectionRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("connection request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.MapError(err)
	}
	if actorRole == domain.RoleCustomer && request.CustomerID != actorID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return request, nil
}

// List returns requests visible to the actor. Customers see their own only.
func (s *RequestService) List(ctx context.Context, actorID string, actorRole domain.Role, filter repository.RequestFilter) ([]domain.ConnectionRequest, error) {
	if actorRole == domain.RoleCustomer {
		filter.CustomerID = &actorID
	}
	requests, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// Decide approves or rejects a pending request. The transition is a single
// compare-and-set against the stored status, so concurrent decisions on the
// same request resolve to exactly one winner; the loser observes
// INVALID_TRANSITION. On approval a contract is provisioned; if provisioning
// fails the approval is rolled back, so the request is never left APPROVED
// without a contract.
func (s *RequestService) Decide(ctx context.Context, actorID string, actorRole domain.Role, requestID string, outcome DecisionOutcome, approval ApprovalInput) (*domain.ConnectionRequest, *domain.Contract, error) {
	var action authz.Action
	var target domain.RequestStatus
	switch outcome {
	case OutcomeApprove:
		action = authz.ActionApproveRequest
		target = domain.RequestStatusApproved
	case OutcomeReject:
		action = authz.ActionRejectRequest
		target = domain.RequestStatusRejected
	default:
		return nil, nil, apperrors.NewValidationError("unknown decision outcome", map[string]any{"outcome": outcome})
	}
	if err := authz.Require(actorRole, action); err != nil {
		return nil, nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("connection request", map[string]any{"request_id": requestID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !request.Status.AwaitingDecision() {
		return nil, nil, apperrors.NewInvalidTransition("request already decided", map[string]any{
			"request_id": requestID,
			"status":     request.Status,
		})
	}

	prior := request.Status
	ok, err := s.requests.CompareAndSetStatus(ctx, request.ID, prior, target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("connection request", map[string]any{"request_id": requestID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, nil, apperrors.NewInvalidTransition("request already decided", map[string]any{
			"request_id": requestID,
		})
	}
	request.Status = target
	now := time.Now()
	request.DecidedAt = &now

	actor := events.Actor{SubjectID: actorID, Role: actorRole}
	if outcome == OutcomeReject {
		s.publish(ctx, actor, events.EventRequestDecided, request.ID, events.RequestDecidedPayload{
			OldStatus: prior,
			NewStatus: target,
		})
		return request, nil, nil
	}

	contract, err := s.provisioning.Create(ctx, actor, ContractInput{
		CustomerID:   request.CustomerID,
		AddressID:    request.AddressID,
		TariffID:     request.TariffID,
		EquipmentIDs: approval.EquipmentIDs,
		StartDate:    approval.StartDate,
		EndDate:      approval.EndDate,
		RequestID:    &request.ID,
	})
	if err != nil {
		// the approval must not survive a failed provisioning
		rolledBack, rbErr := s.requests.CompareAndSetStatus(ctx, request.ID, target, prior)
		if rbErr != nil || !rolledBack {
			return nil, nil, apperrors.NewInternalError(fmt.Errorf("provisioning failed and approval rollback failed: %w", err))
		}
		return nil, nil, err
	}

	s.publish(ctx, actor, events.EventRequestDecided, request.ID, events.RequestDecidedPayload{
		OldStatus:  prior,
		NewStatus:  target,
		ContractID: &contract.ID,
	})
	return request, contract, nil
}

func (s *RequestService) publish(ctx context.Context, actor events.Actor, eventType events.EventType, entityID string, payload interface{}) {
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
