package dto

import "time"

// CreateTicketRequest is the payload for a new support ticket.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// UpdateTicketRequest carries optional changes; an omitted field means "no
// change" and an empty assigned_to clears the assignment.
type UpdateTicketRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assigned_to"`
}

// TicketResponse is the wire shape of a support ticket.
type TicketResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
