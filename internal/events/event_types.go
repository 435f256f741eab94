package events

import (
	"time"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated     EventType = "request_created"
	EventRequestDecided     EventType = "request_decided"
	EventContractCreated    EventType = "contract_created"
	EventContractTerminated EventType = "contract_terminated"
	EventEquipmentReserved  EventType = "equipment_reserved"
	EventEquipmentReleased  EventType = "equipment_released"
	EventTicketCreated      EventType = "ticket_created"
	EventTicketUpdated      EventType = "ticket_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	SubjectID string      `json:"subject_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	CustomerID string `json:"customer_id"`
	AddressID  string `json:"address_id"`
	TariffID   string `json:"tariff_id"`
}

// RequestDecidedPayload payload.
type RequestDecidedPayload struct {
	OldStatus  domain.RequestStatus `json:"old_status"`
	NewStatus  domain.RequestStatus `json:"new_status"`
	ContractID *string              `json:"contract_id,omitempty"`
}

// ContractCreatedPayload payload.
type ContractCreatedPayload struct {
	CustomerID   string   `json:"customer_id"`
	TariffID     string   `json:"tariff_id"`
	EquipmentIDs []string `json:"equipment_ids,omitempty"`
	RequestID    *string  `json:"request_id,omitempty"`
}

// ContractTerminatedPayload payload.
type ContractTerminatedPayload struct {
	EndDate time.Time `json:"end_date"`
}

// EquipmentReservedPayload payload.
type EquipmentReservedPayload struct {
	ReservationID string `json:"reservation_id"`
	Quantity      int    `json:"quantity"`
}

// EquipmentReleasedPayload payload.
type EquipmentReleasedPayload struct {
	ReservationID string `json:"reservation_id"`
	Quantity      int    `json:"quantity"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID string `json:"customer_id"`
	Subject    string `json:"subject"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus   *domain.TicketStatus `json:"old_status,omitempty"`
	NewStatus   *domain.TicketStatus `json:"new_status,omitempty"`
	OldAssignee *string              `json:"old_assignee,omitempty"`
	NewAssignee *string              `json:"new_assignee,omitempty"`
}
