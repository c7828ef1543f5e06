package expense

import (
	"fmt"
	"math"
	"strings"

	"github.com/mzidan/divvy/internal/expense/split"
	"github.com/mzidan/divvy/pkg/currency"
)

// sumTolerance is one minor currency unit. Split sums within this distance
// of the expense amount are accepted (rounding slack).
const sumTolerance = 0.01

// ValidationError carries every violated rule from one submission so
// clients can highlight all problems at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "expense validation failed: " + strings.Join(e.Violations, "; ")
}

// Validate runs every structural and business rule against an expense
// submission and returns all violations; it never short-circuits and does
// no I/O. Membership checks are the guard's job, not the validator's.
//
// The split-sum rule runs when the caller supplies the amounts (exact
// mode); equal-mode amounts are computed server-side after validation and
// sum to the total by construction.
func Validate(req *CreateExpenseRequest) []string {
	var violations []string

	if len(strings.TrimSpace(req.Title)) < 3 {
		violations = append(violations, "title must be at least 3 characters")
	}
	if req.GroupID == 0 {
		violations = append(violations, "group_id is required")
	}
	if req.PaidBy == 0 {
		violations = append(violations, "paid_by is required")
	}
	if req.Amount <= 0 {
		violations = append(violations, "amount must be greater than zero")
	}
	if req.Currency != "" && !currency.Valid(currency.Currency(req.Currency)) {
		violations = append(violations, fmt.Sprintf("unknown currency %q", req.Currency))
	}

	mode := split.Mode(req.SplitType)
	if !split.Known(mode) {
		violations = append(violations, fmt.Sprintf("split_type must be one of equal, exact (got %q)", req.SplitType))
	}

	if len(req.Splits) == 0 {
		violations = append(violations, "at least one split is required")
		return violations
	}

	exact := mode == split.ModeExact
	var sum float64
	sumComplete := true
	distinct := make(map[int64]bool)

	for i, s := range req.Splits {
		if s.UserID == 0 {
			violations = append(violations, fmt.Sprintf("split %d: user_id is required", i+1))
		} else {
			distinct[s.UserID] = true
		}
		if s.Amount != nil && *s.Amount < 0 {
			violations = append(violations, fmt.Sprintf("split %d: amount cannot be negative", i+1))
		}
		if exact && s.Amount == nil {
			violations = append(violations, fmt.Sprintf("split %d: amount is required for exact splits", i+1))
			sumComplete = false
		}
		if s.Amount != nil {
			sum += *s.Amount
		}
	}

	if exact && sumComplete && math.Abs(sum-req.Amount) > sumTolerance {
		violations = append(violations, fmt.Sprintf("split amounts sum to %.2f but the expense amount is %.2f", sum, req.Amount))
	}

	// An expense split only against its own payer is meaningless.
	if req.PaidBy != 0 && len(distinct) == 1 && distinct[req.PaidBy] {
		violations = append(violations, "splits cannot contain only the payer; include at least one other participant")
	}

	return violations
}
