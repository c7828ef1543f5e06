package payment

// CreatePaymentRequest represents the request to record a settlement
type CreatePaymentRequest struct {
	GroupID    int64   `json:"group_id" validate:"required"`
	FromUserID int64   `json:"from_user_id" validate:"required"`
	ToUserID   int64   `json:"to_user_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID           int64   `json:"id"`
	GroupID      int64   `json:"group_id"`
	FromUserID   int64   `json:"from_user_id"`
	FromUsername string  `json:"from_username,omitempty"`
	ToUserID     int64   `json:"to_user_id"`
	ToUsername   string  `json:"to_username,omitempty"`
	Amount       float64 `json:"amount"`
	Notes        *string `json:"notes,omitempty"`
	CreatedBy    int64   `json:"created_by"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		GroupID:      p.GroupID,
		FromUserID:   p.FromUserID,
		FromUsername: p.FromUsername,
		ToUserID:     p.ToUserID,
		ToUsername:   p.ToUsername,
		Amount:       p.Amount,
		Notes:        p.Notes,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
