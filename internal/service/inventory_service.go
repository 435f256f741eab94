package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/events"
	"github.com/spec-kit/provisioning-service/internal/repository"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// InventoryService owns equipment stock reservations.
type InventoryService struct {
	equipment  repository.EquipmentRepository
	dispatcher events.Dispatcher
}

// NewInventoryService constructs the service.
func NewInventoryService(equipment repository.EquipmentRepository, dispatcher events.Dispatcher) *InventoryService {
	return &InventoryService{equipment: equipment, dispatcher: dispatcher}
}

// Reserve atomically decrements available stock for the item. Running out of
// stock is an expected, recoverable outcome, not a system fault.
func (s *InventoryService) Reserve(ctx context.Context, itemID string, quantity int) (*domain.Reservation, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"quantity": quantity})
	}
	reservation, err := s.equipment.Reserve(ctx, itemID, quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment item", map[string]any{"equipment_id": itemID})
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperrors.NewOutOfStock(itemID, quantity)
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventEquipmentReserved, itemID, events.EquipmentReservedPayload{
		ReservationID: reservation.ID,
		Quantity:      reservation.Quantity,
	})
	return reservation, nil
}

// Release returns a reservation's quantity to stock. Safe to call twice.
func (s *InventoryService) Release(ctx context.Context, reservationID string) error {
	if err := s.equipment.Release(ctx, reservationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("reservation", map[string]any{"reservation_id": reservationID})
		}
		return apperrors.MapError(err)
	}
	reservation, err := s.equipment.GetReservation(ctx, reservationID)
	if err != nil {
		return nil
	}
	s.publish(ctx, events.EventEquipmentReleased, reservation.EquipmentID, events.EquipmentReleasedPayload{
		ReservationID: reservation.ID,
		Quantity:      reservation.Quantity,
	})
	return nil
}

func (s *InventoryService) publish(ctx context.Context, eventType events.EventType, entityID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
