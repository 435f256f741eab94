package dto

import "time"

// ContractResponse is the wire shape of a contract.
type ContractResponse struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	AddressID    string     `json:"address_id"`
	TariffID     string     `json:"tariff_id"`
	EquipmentIDs []string   `json:"equipment_ids,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	RequestID    *string    `json:"request_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
