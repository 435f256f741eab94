package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// StatusRepository reads the context-scoped status vocabulary.
type StatusRepository interface {
	ListByContext(ctx context.Context, contextName domain.StatusContext) ([]domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

// ListByContext returns statuses for the context in display order. An unknown
// context yields an empty slice, never an error.
func (r *statusRepository) ListByContext(ctx context.Context, contextName domain.StatusContext) ([]domain.Status, error) {
	const query = `
        SELECT id, context, code, label, sort_order
        FROM statuses WHERE context=$1 ORDER BY sort_order ASC`
	rows, err := r.pool.Query(ctx, query, contextName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Status{}
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(
			&status.ID,
			&status.Context,
			&status.Code,
			&status.Label,
			&status.SortOrder,
		); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
