package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// TariffRepository encapsulates tariff catalog persistence.
type TariffRepository interface {
	Create(ctx context.Context, tariff *domain.Tariff) error
	Update(ctx context.Context, tariff *domain.Tariff) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Tariff, error)
	List(ctx context.Context, limit, offset int) ([]domain.Tariff, error)
}

type tariffRepository struct {
	pool *pgxpool.Pool
}

// NewTariffRepository instantiates repository.
func NewTariffRepository(pool *pgxpool.Pool) TariffRepository {
	return &tariffRepository{pool: pool}
}

func (r *tariffRepository) Create(ctx context.Context, tariff *domain.Tariff) error {
	const query = `
        INSERT INTO tariffs (name, monthly_price, speed_mbps, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tariff.Name,
		tariff.MonthlyPrice,
		tariff.SpeedMbps,
		tariff.IsActive,
	).Scan(&tariff.ID, &tariff.CreatedAt, &tariff.UpdatedAt)
}

func (r *tariffRepository) Update(ctx context.Context, tariff *domain.Tariff) error {
	const query = `
        UPDATE tariffs SET name=$1, monthly_price=$2, speed_mbps=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		tariff.Name,
		tariff.MonthlyPrice,
		tariff.SpeedMbps,
		tariff.IsActive,
		tariff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tariffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tariffs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tariffRepository) GetByID(ctx context.Context, id string) (*domain.Tariff, error) {
	const query = `
        SELECT id, name, monthly_price, speed_mbps, is_active, created_at, updated_at
        FROM tariffs WHERE id=$1`
	var tariff domain.Tariff
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tariff.ID,
		&tariff.Name,
		&tariff.MonthlyPrice,
		&tariff.SpeedMbps,
		&tariff.IsActive,
		&tariff.CreatedAt,
		&tariff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tariff, nil
}

func (r *tariffRepository) List(ctx context.Context, limit, offset int) ([]domain.Tariff, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, monthly_price, speed_mbps, is_active, created_at, updated_at
        FROM tariffs ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tariff
	for rows.Next() {
		var tariff domain.Tariff
		if err := rows.Scan(
			&tariff.ID,
			&tariff.Name,
			&tariff.MonthlyPrice,
			&tariff.SpeedMbps,
			&tariff.IsActive,
			&tariff.CreatedAt,
			&tariff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tariff)
	}
	return result, rows.Err()
}
