package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

// TicketFilter captures listing parameters for support tickets.
type TicketFilter struct {
	CustomerID *string
	Statuses   []domain.TicketStatus
	AssignedTo *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates support ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	Update(ctx context.Context, ticket *domain.SupportTicket) error
	GetByID(ctx context.Context, id string) (*domain.SupportTicket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.SupportTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO support_tickets (customer_id, subject, description, status, assigned_to)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CustomerID,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        UPDATE support_tickets SET subject=$1, description=$2, status=$3, assigned_to=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.AssignedTo,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.SupportTicket, error) {
	const query = `
        SELECT id, customer_id, subject, description, status, assigned_to, created_at, updated_at
        FROM support_tickets WHERE id=$1`
	var ticket domain.SupportTicket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.SupportTicket, error) {
	base := `SELECT id, customer_id, subject, description, status, assigned_to, created_at, updated_at
             FROM support_tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
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

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SupportTicket
	for rows.Next() {
		var ticket domain.SupportTicket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerID,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Status,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
