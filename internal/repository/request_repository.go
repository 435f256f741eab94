package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// RequestFilter captures listing parameters for connection requests.
type RequestFilter struct {
	CustomerID *string
	Statuses   []domain.RequestStatus
	Limit      int
	Offset     int
}

// RequestRepository encapsulates connection request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.ConnectionRequest) error
	GetByID(ctx context.Context, id string) (*domain.ConnectionRequest, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.ConnectionRequest, error)
	// CompareAndSetStatus transitions the status only if the stored value
	// still equals from. Returns false when another caller won the race.
	CompareAndSetStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.ConnectionRequest) error {
	const query = `
        INSERT INTO connection_requests (customer_id, address_id, tariff_id, notes, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		request.CustomerID,
		request.AddressID,
		request.TariffID,
		request.Notes,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ConnectionRequest, error) {
	const query = `
        SELECT id, customer_id, address_id, tariff_id, notes, status, created_at, decided_at
        FROM connection_requests WHERE id=$1`
	var request domain.ConnectionRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.CustomerID,
		&request.AddressID,
		&request.TariffID,
		&request.Notes,
		&request.Status,
		&request.CreatedAt,
		&request.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.ConnectionRequest, error) {
	base := `SELECT id, customer_id, address_id, tariff_id, notes, status, created_at, decided_at
             FROM connection_requests`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
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

	var result []domain.ConnectionRequest
	for rows.Next() {
		var request domain.ConnectionRequest
		if err := rows.Scan(
			&request.ID,
			&request.CustomerID,
			&request.AddressID,
			&request.TariffID,
			&request.Notes,
			&request.Status,
			&request.CreatedAt,
			&request.DecidedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

// CompareAndSetStatus is a single conditional update; the WHERE clause on the
// current status closes the double-decide race. decided_at is stamped when
// entering a terminal status and cleared on rollback.
func (r *requestRepository) CompareAndSetStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	const query = `
        UPDATE connection_requests
        SET status=$1,
            decided_at=CASE WHEN $1 = ANY('{APPROVED,REJECTED}'::text[]) THEN NOW() ELSE NULL END
        WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		// distinguish a lost race from a missing row
		if _, err := r.GetByID(ctx, id); err != nil {
			if err == pgx.ErrNoRows {
				return false, pgx.ErrNoRows
			}
			return false, err
		}
		return false, nil
	}
	return true, nil
}
