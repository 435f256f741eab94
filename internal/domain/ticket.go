package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// SupportTicket is a customer-raised issue handled by staff.
// Tickets are never deleted.
type SupportTicket struct {
	ID          string
	CustomerID  string
	Subject     string
	Description string
	Status      TicketStatus
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
