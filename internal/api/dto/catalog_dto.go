package dto

import "time"

// EquipmentRequest is the payload for catalog equipment writes.
type EquipmentRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	UnitPrice     int64  `json:"unit_price"`
	StockQuantity int    `json:"stock_quantity"`
	Condition     string `json:"condition"`
}

// EquipmentResponse is the wire shape of a catalog equipment item.
type EquipmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	UnitPrice     int64     `json:"unit_price"`
	StockQuantity int       `json:"stock_quantity"`
	Condition     string    `json:"condition"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TariffRequest is the payload for tariff writes.
type TariffRequest struct {
	Name         string `json:"name"`
	MonthlyPrice int64  `json:"monthly_price"`
	SpeedMbps    int    `json:"speed_mbps"`
	IsActive     bool   `json:"is_active"`
}

// TariffResponse is the wire shape of a tariff.
type TariffResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MonthlyPrice int64     `json:"monthly_price"`
	SpeedMbps    int       `json:"speed_mbps"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
