package events

import (
	"context"

	"go.uber.org/zap"
)

var allEventTypes = []EventType{
	EventRequestCreated,
	EventRequestDecided,
	EventContractCreated,
	EventContractTerminated,
	EventEquipmentReserved,
	EventEquipmentReleased,
	EventTicketCreated,
	EventTicketUpdated,
}

// RegisterLogSubscriber attaches a handler that logs every workflow event.
func RegisterLogSubscriber(dispatcher Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, event Event) error {
		logger.Info("workflow event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.String("actor_role", string(event.Actor.Role)),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
	for _, eventType := range allEventTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
