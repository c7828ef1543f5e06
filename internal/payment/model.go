package payment

import "time"

// Payment represents a direct settlement between two group members. It
// reduces the debt from_user owes to_user. Payments are append-only: a
// wrong payment is corrected by a compensating payment in the opposite
// direction, never by editing history.
type Payment struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Amount     float64   `json:"amount"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
