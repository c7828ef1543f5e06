package expense

import (
	"strings"
	"testing"
)

func amount(v float64) *float64 { return &v }

func validRequest() *CreateExpenseRequest {
	return &CreateExpenseRequest{
		GroupID:   1,
		Title:     "Team dinner",
		Currency:  "INR",
		PaidBy:    1,
		Amount:    30.00,
		SplitType: "exact",
		Splits: []*SplitInput{
			{UserID: 1, Amount: amount(10.00)},
			{UserID: 2, Amount: amount(10.00)},
			{UserID: 3, Amount: amount(10.00)},
		},
	}
}

func hasViolation(violations []string, substr string) bool {
	for _, v := range violations {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

func TestValidateAcceptsWellFormedExpense(t *testing.T) {
	if v := Validate(validRequest()); len(v) != 0 {
		t.Fatalf("Validate() = %v, want no violations", v)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	req := &CreateExpenseRequest{
		Title:     "ab",
		Amount:    -1,
		SplitType: "equal",
	}
	violations := Validate(req)

	for _, want := range []string{"title", "group_id", "paid_by", "amount must be greater", "at least one split"} {
		if !hasViolation(violations, want) {
			t.Errorf("Validate() missing %q violation, got %v", want, violations)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	req := validRequest()
	req.Title = "  ab  "
	if v := Validate(req); !hasViolation(v, "title must be at least 3 characters") {
		t.Errorf("Validate() = %v, want title violation for padded short title", v)
	}

	req.Title = "abc"
	if v := Validate(req); hasViolation(v, "title") {
		t.Errorf("Validate() = %v, want no title violation for 3-char title", v)
	}
}

func TestValidateRejectsPayerOnlySplit(t *testing.T) {
	req := validRequest()
	req.Splits = []*SplitInput{{UserID: req.PaidBy, Amount: amount(30.00)}}

	if v := Validate(req); !hasViolation(v, "only the payer") {
		t.Fatalf("Validate() = %v, want payer-only violation", v)
	}
}

func TestValidatePayerOnlyAllowsDuplicateRows(t *testing.T) {
	// Two rows for the same non-payer user is odd but not a payer-only
	// split; the rule keys on the distinct user set.
	req := validRequest()
	req.Splits = []*SplitInput{
		{UserID: req.PaidBy, Amount: amount(15.00)},
		{UserID: 2, Amount: amount(15.00)},
	}
	if v := Validate(req); len(v) != 0 {
		t.Fatalf("Validate() = %v, want no violations when another participant exists", v)
	}
}

func TestValidateSumTolerance(t *testing.T) {
	tests := []struct {
		name   string
		sum    []float64
		reject bool
	}{
		{name: "exactly equal", sum: []float64{10, 10, 10}},
		{name: "half a cent under", sum: []float64{10, 10, 9.995}},
		{name: "two cents under", sum: []float64{10, 10, 9.98}, reject: true},
		{name: "two cents over", sum: []float64{10, 10, 10.02}, reject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Splits = req.Splits[:0]
			for i, a := range tt.sum {
				req.Splits = append(req.Splits, &SplitInput{UserID: int64(i + 1), Amount: amount(a)})
			}

			v := Validate(req)
			got := hasViolation(v, "sum to")
			if got != tt.reject {
				t.Errorf("Validate() sum violation = %v, want %v (violations: %v)", got, tt.reject, v)
			}
		})
	}
}

func TestValidateExactRequiresAmounts(t *testing.T) {
	req := validRequest()
	req.Splits[1].Amount = nil

	v := Validate(req)
	if !hasViolation(v, "amount is required for exact splits") {
		t.Errorf("Validate() = %v, want missing-amount violation", v)
	}
	// An incomplete sum must not additionally produce a misleading
	// sum-mismatch violation.
	if hasViolation(v, "sum to") {
		t.Errorf("Validate() = %v, sum rule should be skipped when amounts are missing", v)
	}
}

func TestValidateEqualModeSkipsAmounts(t *testing.T) {
	req := validRequest()
	req.SplitType = "equal"
	for _, s := range req.Splits {
		s.Amount = nil
	}
	if v := Validate(req); len(v) != 0 {
		t.Fatalf("Validate() = %v, want no violations for equal split without amounts", v)
	}
}

func TestValidateSplitTypeAndCurrency(t *testing.T) {
	req := validRequest()
	req.SplitType = "half"
	req.Currency = "XYZ"

	v := Validate(req)
	if !hasViolation(v, "split_type") {
		t.Errorf("Validate() = %v, want split_type violation", v)
	}
	if !hasViolation(v, "unknown currency") {
		t.Errorf("Validate() = %v, want currency violation", v)
	}
}

func TestValidateNegativeSplitAmount(t *testing.T) {
	req := validRequest()
	req.Splits[0].Amount = amount(-5)
	if v := Validate(req); !hasViolation(v, "cannot be negative") {
		t.Errorf("Validate() = %v, want negative-amount violation", v)
	}
}
