package dto

import "time"

// CreateRequestRequest is the payload for a new connection request.
type CreateRequestRequest struct {
	AddressID string `json:"address_id"`
	TariffID  string `json:"tariff_id"`
	Notes     string `json:"notes"`
}

// ApproveRequestRequest carries the approver's equipment selection and
// contract dates.
type ApproveRequestRequest struct {
	EquipmentIDs []string   `json:"equipment_ids"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// RequestResponse is the wire shape of a connection request.
type RequestResponse struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	AddressID  string     `json:"address_id"`
	TariffID   string     `json:"tariff_id"`
	Notes      string     `json:"notes,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// ApproveRequestResponse pairs the decided request with its contract.
type ApproveRequestResponse struct {
	Request  RequestResponse  `json:"request"`
	Contract ContractResponse `json:"contract"`
}
