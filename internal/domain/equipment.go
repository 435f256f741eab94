package domain

import "time"

// EquipmentCondition distinguishes factory-new units from refurbished ones.
type EquipmentCondition string

const (
	EquipmentConditionNew  EquipmentCondition = "NEW"
	EquipmentConditionUsed EquipmentCondition = "USED"
)

// EquipmentItem is a catalog entry with available stock.
// StockQuantity never goes negative; units referenced by an active contract
// are considered assigned and are not returned to stock automatically.
type EquipmentItem struct {
	ID            string
	Name          string
	Category      string
	UnitPrice     int64 // minor currency units
	StockQuantity int
	Condition     EquipmentCondition
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reservation records one atomic stock decrement. A reservation created
// during provisioning is bound to the resulting contract; releasing it
// returns the quantity to stock.
type Reservation struct {
	ID          string
	EquipmentID string
	Quantity    int
	ContractID  *string
	Released    bool
	CreatedAt   time.Time
}
