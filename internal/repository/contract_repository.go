package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// ContractFilter captures listing parameters for contracts.
type ContractFilter struct {
	CustomerID *string
	Active     *bool
	Limit      int
	Offset     int
}

// ContractRepository encapsulates contract persistence.
type ContractRepository interface {
	// Create persists the contract, its equipment references, and binds the
	// given reservations to it in a single transaction.
	Create(ctx context.Context, contract *domain.Contract, reservationIDs []string) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	ListWithFilter(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
	// Terminate deactivates the contract only while it is still active.
	// Returns false when the contract was already terminated.
	Terminate(ctx context.Context, id string, endDate time.Time) (bool, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract, reservationIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertContract = `
        INSERT INTO contracts (customer_id, address_id, tariff_id, start_date, end_date, is_active, request_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertContract,
		contract.CustomerID,
		contract.AddressID,
		contract.TariffID,
		contract.StartDate,
		contract.EndDate,
		contract.IsActive,
		contract.RequestID,
	).Scan(&contract.ID, &contract.CreatedAt); err != nil {
		return err
	}

	const insertEquipment = `
        INSERT INTO contract_equipment (contract_id, equipment_id, position) VALUES ($1,$2,$3)`
	for i, equipmentID := range contract.EquipmentIDs {
		if _, err := tx.Exec(ctx, insertEquipment, contract.ID, equipmentID, i); err != nil {
			return err
		}
	}

	const bindReservation = `
        UPDATE equipment_reservations SET contract_id=$1 WHERE id=$2`
	for _, reservationID := range reservationIDs {
		if _, err := tx.Exec(ctx, bindReservation, contract.ID, reservationID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	const query = `
        SELECT id, customer_id, address_id, tariff_id, start_date, end_date, is_active, request_id, created_at
        FROM contracts WHERE id=$1`
	var contract domain.Contract
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contract.ID,
		&contract.CustomerID,
		&contract.AddressID,
		&contract.TariffID,
		&contract.StartDate,
		&contract.EndDate,
		&contract.IsActive,
		&contract.RequestID,
		&contract.CreatedAt,
	); err != nil {
		return nil, err
	}
	equipmentIDs, err := r.equipmentIDs(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	contract.EquipmentIDs = equipmentIDs
	return &contract, nil
}

func (r *contractRepository) equipmentIDs(ctx context.Context, contractID string) ([]string, error) {
	const query = `
        SELECT equipment_id FROM contract_equipment WHERE contract_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *contractRepository) ListWithFilter(ctx context.Context, filter ContractFilter) ([]domain.Contract, error) {
	base := `SELECT id, customer_id, address_id, tariff_id, start_date, end_date, is_active, request_id, created_at
             FROM contracts`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := rows.Scan(
			&contract.ID,
			&contract.CustomerID,
			&contract.AddressID,
			&contract.TariffID,
			&contract.StartDate,
			&contract.EndDate,
			&contract.IsActive,
			&contract.RequestID,
			&contract.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}

// Terminate guards on is_active so repeated terminations never move end_date
// after the first successful call.
func (r *contractRepository) Terminate(ctx context.Context, id string, endDate time.Time) (bool, error) {
	const query = `
        UPDATE contracts SET is_active=false, end_date=$2 WHERE id=$1 AND is_active=true`
	cmd, err := r.pool.Exec(ctx, query, id, endDate)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
