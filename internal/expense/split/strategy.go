// Package split computes per-participant shares of an expense amount.
package split

import (
	"errors"
	"fmt"
)

// Mode identifies how an expense amount is partitioned across participants.
type Mode string

const (
	ModeEqual Mode = "equal"
	ModeExact Mode = "exact"

	// Reserved extension points. The data model accepts them; the factory
	// rejects them until a strategy exists.
	ModePercentage Mode = "percentage"
	ModeShares     Mode = "shares"
)

// Label returns the display name for a mode.
func (m Mode) Label() string {
	if info, ok := modeInfo[m]; ok {
		return info
	}
	return string(m)
}

var modeInfo = map[Mode]string{
	ModeEqual:      "Split equally",
	ModeExact:      "Exact amounts",
	ModePercentage: "By percentage",
	ModeShares:     "By shares",
}

// Known reports whether m is an accepted split mode value (implemented or
// reserved).
func Known(m Mode) bool {
	_, ok := modeInfo[m]
	return ok
}

// Participant is one user taking part in a split. Amount is required for
// exact mode and ignored for equal mode.
type Participant struct {
	UserID int64    `json:"user_id"`
	Amount *float64 `json:"amount,omitempty"`
}

// Share is the computed owed amount for a single participant.
type Share struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// Strategy computes shares for one split mode.
type Strategy interface {
	// Mode returns the mode identifier for this strategy.
	Mode() Mode

	// Compute partitions total across participants in caller order. The
	// returned shares sum to total to the cent for computed modes; exact
	// mode passes caller amounts through unchanged.
	Compute(total float64, participants []Participant) ([]Share, error)
}

// Factory creates split strategies by mode.
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for the given mode. Reserved modes are
// rejected with ErrModeNotSupported.
func (f *Factory) Create(mode Mode) (Strategy, error) {
	switch mode {
	case ModeEqual:
		return &EqualStrategy{}, nil
	case ModeExact:
		return &ExactStrategy{}, nil
	case ModePercentage, ModeShares:
		return nil, fmt.Errorf("%w: %s", ErrModeNotSupported, mode)
	default:
		return nil, fmt.Errorf("unknown split mode: %s", mode)
	}
}

var (
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrNonPositiveAmount = errors.New("total amount must be greater than zero")
	ErrMissingAmount     = errors.New("exact amount required for all participants")
	ErrModeNotSupported  = errors.New("split mode not supported yet")
)
