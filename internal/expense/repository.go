package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mzidan/divvy/internal/expense/split"
	"github.com/mzidan/divvy/pkg/currency"
)

// Repository handles expense, payer and split data persistence. Payer and
// split rows are only ever written together with their expense, inside one
// transaction: a crash must never leave an expense with stale children.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts an expense with its payer and split rows in one
// transaction.
func (r *Repository) CreateExpense(ctx context.Context, createdBy int64, req *CreateExpenseRequest, cur currency.Currency, shares []split.Share) (*ExpenseDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, title, currency, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, title, currency, created_by, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query, req.GroupID, req.Title, cur, createdBy).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Title,
		&expense.Currency,
		&expense.CreatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	detail := &ExpenseDetail{Expense: expense}
	if detail.Payers, detail.Splits, err = r.insertChildren(ctx, tx, expense.ID, req, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return detail, nil
}

// ReplaceExpense updates the expense row and fully replaces its payer and
// split children (delete old, insert new) in one transaction. The original
// created_by is preserved: creator identity survives edits by other members.
func (r *Repository) ReplaceExpense(ctx context.Context, id int64, req *UpdateExpenseRequest, cur currency.Currency, shares []split.Share) (*ExpenseDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET title = $2, currency = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, group_id, title, currency, created_by, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query, id, req.Title, cur).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Title,
		&expense.Currency,
		&expense.CreatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_payers WHERE expense_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete old payers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete old splits: %w", err)
	}

	detail := &ExpenseDetail{Expense: expense}
	if detail.Payers, detail.Splits, err = r.insertChildren(ctx, tx, id, req, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense replacement: %w", err)
	}

	return detail, nil
}

// insertChildren writes the payer and split rows for an expense within tx.
func (r *Repository) insertChildren(ctx context.Context, tx *sql.Tx, expenseID int64, req *CreateExpenseRequest, shares []split.Share) ([]*Payer, []*Split, error) {
	payerQuery := `
		INSERT INTO expense_payers (expense_id, paid_by, amount)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, paid_by, amount
	`

	payer := &Payer{}
	err := tx.QueryRowContext(ctx, payerQuery, expenseID, req.PaidBy, req.Amount).Scan(
		&payer.ID,
		&payer.ExpenseID,
		&payer.PaidBy,
		&payer.Amount,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create payer: %w", err)
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, amount, split_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, expense_id, user_id, amount, split_type
	`

	splits := make([]*Split, len(shares))
	for i, share := range shares {
		s := &Split{}
		err := tx.QueryRowContext(ctx, splitQuery, expenseID, share.UserID, share.Amount, req.SplitType).Scan(
			&s.ID,
			&s.ExpenseID,
			&s.UserID,
			&s.Amount,
			&s.SplitType,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create split: %w", err)
		}
		splits[i] = s
	}

	return []*Payer{payer}, splits, nil
}

// GetExpenseByID retrieves an expense with its payers and splits
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*ExpenseDetail, error) {
	query := `
		SELECT e.id, e.group_id, e.title, e.currency, e.created_by, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Title,
		&expense.Currency,
		&expense.CreatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.CreatorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	payers, err := r.getPayers(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	splits, err := r.getSplits(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	return &ExpenseDetail{Expense: expense, Payers: payers[id], Splits: splits[id]}, nil
}

// ListByGroup retrieves a page of expenses for a group with their payer and
// split rows attached.
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*ExpenseDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.title, e.currency, e.created_by, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var details []*ExpenseDetail
	var ids []int64
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.Title,
			&expense.Currency,
			&expense.CreatedBy,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.CreatorUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		details = append(details, &ExpenseDetail{Expense: expense})
		ids = append(ids, expense.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read expenses: %w", err)
	}

	if len(ids) == 0 {
		return details, total, nil
	}

	payers, err := r.getPayers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	splits, err := r.getSplits(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, d := range details {
		d.Payers = payers[d.Expense.ID]
		d.Splits = splits[d.Expense.ID]
	}

	return details, total, nil
}

// getPayers fetches payer rows for a set of expenses in one query.
func (r *Repository) getPayers(ctx context.Context, expenseIDs []int64) (map[int64][]*Payer, error) {
	query := `
		SELECT p.id, p.expense_id, p.paid_by, p.amount, u.username
		FROM expense_payers p
		JOIN users u ON p.paid_by = u.id
		WHERE p.expense_id = ANY($1)
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(expenseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get payers: %w", err)
	}
	defer rows.Close()

	payers := make(map[int64][]*Payer)
	for rows.Next() {
		p := &Payer{}
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.PaidBy, &p.Amount, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		payers[p.ExpenseID] = append(payers[p.ExpenseID], p)
	}

	return payers, nil
}

// getSplits fetches split rows for a set of expenses in one query.
func (r *Repository) getSplits(ctx context.Context, expenseIDs []int64) (map[int64][]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.split_type, s.percentage, s.shares, u.username
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = ANY($1)
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(expenseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[int64][]*Split)
	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Amount, &s.SplitType, &s.Percentage, &s.Shares, &s.Username); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits[s.ExpenseID] = append(splits[s.ExpenseID], s)
	}

	return splits, nil
}

// DeleteExpense removes an expense and cascades to its payer and split rows
// in one transaction; no orphans survive.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_payers WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete payers: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense deletion: %w", err)
	}

	return nil
}
