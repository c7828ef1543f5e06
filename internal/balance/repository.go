package balance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository loads the raw rows the aggregator reduces. It reads across the
// expense and payment tables directly; balances are derived, never stored.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GroupRows loads every payer, split and payment row of one group.
func (r *Repository) GroupRows(ctx context.Context, groupID int64) ([]PayerRow, []SplitRow, []PaymentRow, error) {
	payers, err := r.queryPayers(ctx, `
		SELECT ep.expense_id, ep.paid_by, ep.amount
		FROM expense_payers ep
		JOIN expenses e ON ep.expense_id = e.id
		WHERE e.group_id = $1
	`, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	splits, err := r.querySplits(ctx, `
		SELECT es.expense_id, es.user_id, es.amount
		FROM expense_splits es
		JOIN expenses e ON es.expense_id = e.id
		WHERE e.group_id = $1
	`, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	payments, err := r.queryPayments(ctx, `
		SELECT from_user_id, to_user_id, amount
		FROM payments
		WHERE group_id = $1
	`, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	return payers, splits, payments, nil
}

// GlobalRows loads every payer, split and payment row across all groups the
// user belongs to.
func (r *Repository) GlobalRows(ctx context.Context, userID int64) ([]PayerRow, []SplitRow, []PaymentRow, error) {
	payers, err := r.queryPayers(ctx, `
		SELECT ep.expense_id, ep.paid_by, ep.amount
		FROM expense_payers ep
		JOIN expenses e ON ep.expense_id = e.id
		WHERE e.group_id IN (SELECT group_id FROM group_members WHERE user_id = $1)
	`, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	splits, err := r.querySplits(ctx, `
		SELECT es.expense_id, es.user_id, es.amount
		FROM expense_splits es
		JOIN expenses e ON es.expense_id = e.id
		WHERE e.group_id IN (SELECT group_id FROM group_members WHERE user_id = $1)
	`, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	payments, err := r.queryPayments(ctx, `
		SELECT from_user_id, to_user_id, amount
		FROM payments
		WHERE group_id IN (SELECT group_id FROM group_members WHERE user_id = $1)
	`, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	return payers, splits, payments, nil
}

// UsernamesByIDs fetches usernames for a set of user IDs in one query.
func (r *Repository) UsernamesByIDs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	usernames := make(map[int64]string)
	if len(userIDs) == 0 {
		return usernames, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, username FROM users WHERE id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames[id] = username
	}

	return usernames, nil
}

func (r *Repository) queryPayers(ctx context.Context, query string, arg int64) ([]PayerRow, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load payer rows: %w", err)
	}
	defer rows.Close()

	var payers []PayerRow
	for rows.Next() {
		var p PayerRow
		if err := rows.Scan(&p.ExpenseID, &p.UserID, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payer row: %w", err)
		}
		payers = append(payers, p)
	}
	return payers, rows.Err()
}

func (r *Repository) querySplits(ctx context.Context, query string, arg int64) ([]SplitRow, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load split rows: %w", err)
	}
	defer rows.Close()

	var splits []SplitRow
	for rows.Next() {
		var s SplitRow
		if err := rows.Scan(&s.ExpenseID, &s.UserID, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

func (r *Repository) queryPayments(ctx context.Context, query string, arg int64) ([]PaymentRow, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment rows: %w", err)
	}
	defer rows.Close()

	var payments []PaymentRow
	for rows.Next() {
		var p PaymentRow
		if err := rows.Scan(&p.FromUserID, &p.ToUserID, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
