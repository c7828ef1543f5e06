package expense

import "github.com/mzidan/divvy/pkg/currency"

// SplitInput is one participant entry in an expense submission. Amount is
// required for exact splits and ignored for equal splits (the server
// computes those). Order matters for equal splits: the last participant
// absorbs the rounding remainder.
type SplitInput struct {
	UserID int64    `json:"user_id"`
	Amount *float64 `json:"amount,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID   int64         `json:"group_id" validate:"required"`
	Title     string        `json:"title" validate:"required,min=3,max=255"`
	Currency  string        `json:"currency,omitempty"`
	PaidBy    int64         `json:"paid_by" validate:"required"`
	Amount    float64       `json:"amount" validate:"required,gt=0"`
	SplitType string        `json:"split_type" validate:"required,oneof=equal exact"`
	Splits    []*SplitInput `json:"splits" validate:"required,min=1"`
}

// UpdateExpenseRequest carries the same fields as create; payer and split
// children are always fully replaced, never patched.
type UpdateExpenseRequest = CreateExpenseRequest

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64            `json:"id"`
	GroupID         int64            `json:"group_id"`
	Title           string           `json:"title"`
	Currency        string           `json:"currency"`
	CurrencySymbol  string           `json:"currency_symbol"`
	Amount          float64          `json:"amount"`
	CreatedBy       int64            `json:"created_by"`
	CreatorUsername string           `json:"creator_username,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
	Payers          []*PayerResponse `json:"payers,omitempty"`
	Splits          []*SplitResponse `json:"splits,omitempty"`
}

// PayerResponse represents a payer record in an expense response
type PayerResponse struct {
	ID       int64   `json:"id"`
	PaidBy   int64   `json:"paid_by"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// SplitResponse represents a split record in an expense response
type SplitResponse struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username,omitempty"`
	Amount    float64 `json:"amount"`
	SplitType string  `json:"split_type"`
}

// ToResponse converts an ExpenseDetail to an ExpenseResponse DTO
func (d *ExpenseDetail) ToResponse() *ExpenseResponse {
	e := d.Expense

	var total float64
	payers := make([]*PayerResponse, len(d.Payers))
	for i, p := range d.Payers {
		total += p.Amount
		payers[i] = &PayerResponse{
			ID:       p.ID,
			PaidBy:   p.PaidBy,
			Username: p.Username,
			Amount:   p.Amount,
		}
	}

	splits := make([]*SplitResponse, len(d.Splits))
	for i, s := range d.Splits {
		splits[i] = &SplitResponse{
			ID:        s.ID,
			UserID:    s.UserID,
			Username:  s.Username,
			Amount:    s.Amount,
			SplitType: string(s.SplitType),
		}
	}

	return &ExpenseResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Title:           e.Title,
		Currency:        string(e.Currency),
		CurrencySymbol:  currency.Display(e.Currency).Symbol,
		Amount:          total,
		CreatedBy:       e.CreatedBy,
		CreatorUsername: e.CreatorUsername,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		Payers:          payers,
		Splits:          splits,
	}
}
