package domain

import "time"

// Contract is a provisioned service agreement. IsActive transitions
// true -> false exactly once; there is no reactivation.
type Contract struct {
	ID           string
	CustomerID   string
	AddressID    string
	TariffID     string
	EquipmentIDs []string
	StartDate    time.Time
	EndDate      *time.Time
	IsActive     bool
	RequestID    *string
	CreatedAt    time.Time
}
