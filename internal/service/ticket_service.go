package service

import (
	"context"
	"errors"
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

// TicketService owns the support ticket state machine and technician
// assignment. Assignment sits behind a stricter permission than status
// changes: front-line support may update status but not reassign ownership.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
}

// TicketUpdateInput carries optional changes. A nil field means "no change";
// an empty AssignedTo clears the assignment.
type TicketUpdateInput struct {
	Status     *domain.TicketStatus
	AssignedTo *string
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// Create registers a customer's ticket.
func (s *TicketService) Create(ctx context.Context, customerID string, input TicketCreateInput) (*domain.SupportTicket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	ticket := &domain.SupportTicket{
		CustomerID:  customerID,
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Actor{SubjectID: customerID, Role: domain.RoleCustomer}, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		CustomerID: ticket.CustomerID,
		Subject:    ticket.Subject,
	})
	return ticket, nil
}

// GetByID fetches a ticket, enforcing customer ownership.
func (s *TicketService) GetByID(ctx context.Context, actorID string, actorRole domain.Role, ticketID string) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("support ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if actorRole == domain.RoleCustomer && ticket.CustomerID != actorID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// List returns tickets visible to the actor. Customers see their own only.
func (s *TicketService) List(ctx context.Context, actorID string, actorRole domain.Role, filter repository.TicketFilter) ([]domain.SupportTicket, error) {
	if actorRole == domain.RoleCustomer {
		filter.CustomerID = &actorID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update applies the requested status and assignment changes. Each requested
// change is authorized before anything is written, so a call mixing an
// allowed and a denied change applies neither. Both fields nil is a valid
// no-op returning the current ticket.
func (s *TicketService) Update(ctx context.Context, actorID string, actorRole domain.Role, ticketID string, input TicketUpdateInput) (*domain.SupportTicket, error) {
	if input.Status != nil {
		if err := authz.Require(actorRole, authz.ActionModifyTicketStatus); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		if err := authz.Require(actorRole, authz.ActionAssignTechnician); err != nil {
			return nil, err
		}
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("support ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Status == nil && input.AssignedTo == nil {
		return ticket, nil
	}

	var payload events.TicketUpdatedPayload
	if input.Status != nil && *input.Status != ticket.Status {
		if !isValidTicketTransition(ticket.Status, *input.Status) {
			return nil, apperrors.NewInvalidTransition("invalid ticket status transition", map[string]any{
				"from": ticket.Status,
				"to":   *input.Status,
			})
		}
		oldStatus := ticket.Status
		newStatus := *input.Status
		payload.OldStatus = &oldStatus
		payload.NewStatus = &newStatus
		ticket.Status = newStatus
	}
	if input.AssignedTo != nil {
		payload.OldAssignee = ticket.AssignedTo
		if *input.AssignedTo == "" {
			ticket.AssignedTo = nil
		} else {
			assignee := *input.AssignedTo
			ticket.AssignedTo = &assignee
		}
		payload.NewAssignee = ticket.AssignedTo
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("support ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Actor{SubjectID: actorID, Role: actorRole}, events.EventTicketUpdated, ticket.ID, payload)
	return ticket, nil
}

var allowedTicketTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

func isValidTicketTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTicketTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *TicketService) publish(ctx context.Context, actor events.Actor, eventType events.EventType, entityID string, payload interface{}) {
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
