package expense

import (
	"time"

	"github.com/mzidan/divvy/internal/expense/split"
	"github.com/mzidan/divvy/pkg/currency"
)

// Expense represents an expense in the system. Payer and split records are
// children replaced as a unit on every update; the expense row itself keeps
// its identity and creator.
type Expense struct {
	ID        int64             `json:"id"`
	GroupID   int64             `json:"group_id"`
	Title     string            `json:"title"`
	Currency  currency.Currency `json:"currency"`
	CreatedBy int64             `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Populated via JOIN
	CreatorUsername string `json:"creator_username,omitempty"`
}

// Payer is one user who fronted money for an expense. The sum of payer
// amounts is the expense total. The API currently accepts a single payer,
// but storage and balance math handle several.
type Payer struct {
	ID        int64   `json:"id"`
	ExpenseID int64   `json:"expense_id"`
	PaidBy    int64   `json:"paid_by"`
	Amount    float64 `json:"amount"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// Split is one participant's owed share of an expense.
type Split struct {
	ID         int64      `json:"id"`
	ExpenseID  int64      `json:"expense_id"`
	UserID     int64      `json:"user_id"`
	Amount     float64    `json:"amount"`
	SplitType  split.Mode `json:"split_type"`
	Percentage *float64   `json:"percentage,omitempty"`
	Shares     *int       `json:"shares,omitempty"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseDetail combines an expense with its payer and split records
type ExpenseDetail struct {
	Expense *Expense
	Payers  []*Payer
	Splits  []*Split
}

// ParticipantIDs returns every distinct user involved in the expense,
// payers and split participants alike.
func (d *ExpenseDetail) ParticipantIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, p := range d.Payers {
		if !seen[p.PaidBy] {
			seen[p.PaidBy] = true
			ids = append(ids, p.PaidBy)
		}
	}
	for _, s := range d.Splits {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	return ids
}
