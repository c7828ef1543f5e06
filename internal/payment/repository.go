package payment

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new payment
func (r *Repository) Create(ctx context.Context, createdBy int64, req *CreatePaymentRequest) (*Payment, error) {
	query := `
		INSERT INTO payments (group_id, from_user_id, to_user_id, amount, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, from_user_id, to_user_id, amount, notes, created_by, created_at, updated_at
	`

	payment := &Payment{}
	err := r.db.QueryRowContext(ctx, query,
		req.GroupID,
		req.FromUserID,
		req.ToUserID,
		req.Amount,
		req.Notes,
		createdBy,
	).Scan(
		&payment.ID,
		&payment.GroupID,
		&payment.FromUserID,
		&payment.ToUserID,
		&payment.Amount,
		&payment.Notes,
		&payment.CreatedBy,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// ListByGroup retrieves a page of a group's payments, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `
		SELECT p.id, p.group_id, p.from_user_id, p.to_user_id, p.amount, p.notes, p.created_by, p.created_at, p.updated_at,
		       uf.username, ut.username
		FROM payments p
		JOIN users uf ON p.from_user_id = uf.id
		JOIN users ut ON p.to_user_id = ut.id
		WHERE p.group_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		payment := &Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.GroupID,
			&payment.FromUserID,
			&payment.ToUserID,
			&payment.Amount,
			&payment.Notes,
			&payment.CreatedBy,
			&payment.CreatedAt,
			&payment.UpdatedAt,
			&payment.FromUsername,
			&payment.ToUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, total, nil
}
