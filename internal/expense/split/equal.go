package split

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EqualStrategy divides the total evenly among all participants.
//
// Each participant gets total/n floored to the cent; the rounding remainder
// goes to the last participant in caller order, so the computed shares sum
// to the total exactly. Caller order is preserved, not sorted — who absorbs
// the remainder is part of the contract.
type EqualStrategy struct{}

// Mode returns the mode identifier
func (s *EqualStrategy) Mode() Mode {
	return ModeEqual
}

// Compute divides total evenly across participants.
func (s *EqualStrategy) Compute(total float64, participants []Participant) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total <= 0 {
		return nil, ErrNonPositiveAmount
	}

	n := int64(len(participants))
	totalDec := decimal.NewFromFloat(total)

	// base = floor(total / n * 100) / 100
	base := totalDec.Div(decimal.NewFromInt(n)).Mul(hundred).Floor().Div(hundred)
	remainder := totalDec.Sub(base.Mul(decimal.NewFromInt(n))).Round(2)

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if i == len(participants)-1 {
			amount = base.Add(remainder)
		}
		shares[i] = Share{
			UserID: p.UserID,
			Amount: amount.InexactFloat64(),
		}
	}

	return shares, nil
}
