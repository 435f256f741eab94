package domain

import "time"

// RequestStatus enumerates lifecycle states for connection requests.
type RequestStatus string

const (
	RequestStatusNew      RequestStatus = "NEW"
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// AwaitingDecision reports whether the request can still be decided.
// Both NEW and PENDING count as pre-decision states.
func (s RequestStatus) AwaitingDecision() bool {
	return s == RequestStatusNew || s == RequestStatusPending
}

// Terminal reports whether the status admits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// ConnectionRequest is a customer's application for new or changed service.
// It is never deleted, only transitioned into a terminal status.
type ConnectionRequest struct {
	ID         string
	CustomerID string
	AddressID  string
	TariffID   string
	Notes      string
	Status     RequestStatus
	CreatedAt  time.Time
	DecidedAt  *time.Time
}
