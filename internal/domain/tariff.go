package domain

import "time"

// Tariff is a service plan referenced by requests and contracts.
type Tariff struct {
	ID           string
	Name         string
	MonthlyPrice int64 // minor currency units
	SpeedMbps    int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
