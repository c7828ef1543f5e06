package split

// ExactStrategy passes caller-supplied per-participant amounts through
// unchanged. Verifying that the amounts sum to the expense total (within the
// 0.01 tolerance) is the expense validator's job; the strategy never clamps
// or adjusts.
type ExactStrategy struct{}

// Mode returns the mode identifier
func (s *ExactStrategy) Mode() Mode {
	return ModeExact
}

// Compute returns the exact amounts specified for each participant.
func (s *ExactStrategy) Compute(total float64, participants []Participant) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total <= 0 {
		return nil, ErrNonPositiveAmount
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		if p.Amount == nil {
			return nil, ErrMissingAmount
		}
		shares[i] = Share{
			UserID: p.UserID,
			Amount: *p.Amount,
		}
	}

	return shares, nil
}
