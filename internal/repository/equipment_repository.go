package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// ErrInsufficientStock indicates a reservation exceeds the available stock.
// Expected and recoverable; callers map it to an OUT_OF_STOCK outcome.
var ErrInsufficientStock = errors.New("insufficient stock")

// EquipmentRepository encapsulates equipment catalog and stock persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, item *domain.EquipmentItem) error
	Update(ctx context.Context, item *domain.EquipmentItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.EquipmentItem, error)
	List(ctx context.Context, limit, offset int) ([]domain.EquipmentItem, error)
	// Reserve atomically decrements stock and records a reservation.
	// Returns ErrInsufficientStock when quantity exceeds available stock and
	// pgx.ErrNoRows when the item does not exist.
	Reserve(ctx context.Context, itemID string, quantity int) (*domain.Reservation, error)
	// Release returns a reservation's quantity to stock. Idempotent: releasing
	// an already-released reservation is a no-op.
	Release(ctx context.Context, reservationID string) error
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

func (r *equipmentRepository) Create(ctx context.Context, item *domain.EquipmentItem) error {
	const query = `
        INSERT INTO equipment_items (name, category, unit_price, stock_quantity, condition)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Category,
		item.UnitPrice,
		item.StockQuantity,
		item.Condition,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, item *domain.EquipmentItem) error {
	const query = `
        UPDATE equipment_items SET name=$1, category=$2, unit_price=$3, stock_quantity=$4,
            condition=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		item.Name,
		item.Category,
		item.UnitPrice,
		item.StockQuantity,
		item.Condition,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM equipment_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.EquipmentItem, error) {
	const query = `
        SELECT id, name, category, unit_price, stock_quantity, condition, created_at, updated_at
        FROM equipment_items WHERE id=$1`
	var item domain.EquipmentItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.UnitPrice,
		&item.StockQuantity,
		&item.Condition,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *equipmentRepository) List(ctx context.Context, limit, offset int) ([]domain.EquipmentItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, category, unit_price, stock_quantity, condition, created_at, updated_at
        FROM equipment_items ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EquipmentItem
	for rows.Next() {
		var item domain.EquipmentItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.UnitPrice,
			&item.StockQuantity,
			&item.Condition,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// Reserve runs the guarded decrement and the reservation insert in one
// transaction. The stock_quantity >= $2 predicate makes the read-then-decrement
// atomic: two concurrent reservations against the last unit cannot both pass.
func (r *equipmentRepository) Reserve(ctx context.Context, itemID string, quantity int) (*domain.Reservation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const decrement = `
        UPDATE equipment_items SET stock_quantity = stock_quantity - $2, updated_at=NOW()
        WHERE id=$1 AND stock_quantity >= $2`
	cmd, err := tx.Exec(ctx, decrement, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM equipment_items WHERE id=$1)`, itemID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, pgx.ErrNoRows
		}
		return nil, ErrInsufficientStock
	}

	reservation := &domain.Reservation{
		EquipmentID: itemID,
		Quantity:    quantity,
	}
	const insert = `
        INSERT INTO equipment_reservations (equipment_id, quantity)
        VALUES ($1,$2)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert, itemID, quantity).Scan(&reservation.ID, &reservation.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *equipmentRepository) Release(ctx context.Context, reservationID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const mark = `
        UPDATE equipment_reservations SET released=true
        WHERE id=$1 AND released=false
        RETURNING equipment_id, quantity`
	var equipmentID string
	var quantity int
	if err := tx.QueryRow(ctx, mark, reservationID).Scan(&equipmentID, &quantity); err != nil {
		if err == pgx.ErrNoRows {
			// missing row is an error, an already-released one is not
			var exists bool
			if qerr := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM equipment_reservations WHERE id=$1)`, reservationID).Scan(&exists); qerr != nil {
				return qerr
			}
			if !exists {
				return pgx.ErrNoRows
			}
			return nil
		}
		return err
	}

	const increment = `
        UPDATE equipment_items SET stock_quantity = stock_quantity + $2, updated_at=NOW() WHERE id=$1`
	if _, err := tx.Exec(ctx, increment, equipmentID, quantity); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *equipmentRepository) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	const query = `
        SELECT id, equipment_id, quantity, contract_id, released, created_at
        FROM equipment_reservations WHERE id=$1`
	var reservation domain.Reservation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.EquipmentID,
		&reservation.Quantity,
		&reservation.ContractID,
		&reservation.Released,
		&reservation.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reservation, nil
}
