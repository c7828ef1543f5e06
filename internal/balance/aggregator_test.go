package balance

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateEmptyScope(t *testing.T) {
	got := Aggregate(1, nil, nil, nil)

	if got.TotalPaid != 0 || got.TotalOwed != 0 || got.NetBalance != 0 {
		t.Errorf("expected zero totals, got paid=%v owed=%v net=%v", got.TotalPaid, got.TotalOwed, got.NetBalance)
	}
	if got.OwesTo == nil || len(got.OwesTo) != 0 {
		t.Errorf("expected empty owes_to, got %v", got.OwesTo)
	}
	if got.OwedBy == nil || len(got.OwedBy) != 0 {
		t.Errorf("expected empty owed_by, got %v", got.OwedBy)
	}
}

func TestAggregateSingleExpense(t *testing.T) {
	// User 1 pays 90, split equally three ways.
	payers := []PayerRow{{ExpenseID: 1, UserID: 1, Amount: 90}}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 30},
		{ExpenseID: 1, UserID: 2, Amount: 30},
		{ExpenseID: 1, UserID: 3, Amount: 30},
	}

	payer := Aggregate(1, payers, splits, nil)
	if payer.TotalPaid != 90 || payer.TotalOwed != 30 {
		t.Errorf("payer totals: paid=%v owed=%v", payer.TotalPaid, payer.TotalOwed)
	}
	if payer.NetBalance != 60 {
		t.Errorf("payer net = %v, want 60", payer.NetBalance)
	}
	wantOwedBy := []Entry{{UserID: 2, Amount: 30}, {UserID: 3, Amount: 30}}
	if !reflect.DeepEqual(payer.OwedBy, wantOwedBy) {
		t.Errorf("payer owed_by = %v, want %v", payer.OwedBy, wantOwedBy)
	}
	if len(payer.OwesTo) != 0 {
		t.Errorf("payer owes_to = %v, want empty", payer.OwesTo)
	}

	debtor := Aggregate(2, payers, splits, nil)
	if debtor.NetBalance != -30 {
		t.Errorf("debtor net = %v, want -30", debtor.NetBalance)
	}
	wantOwesTo := []Entry{{UserID: 1, Amount: 30}}
	if !reflect.DeepEqual(debtor.OwesTo, wantOwesTo) {
		t.Errorf("debtor owes_to = %v, want %v", debtor.OwesTo, wantOwesTo)
	}
}

func TestAggregatePairSymmetry(t *testing.T) {
	payers := []PayerRow{
		{ExpenseID: 1, UserID: 1, Amount: 100},
		{ExpenseID: 2, UserID: 2, Amount: 40},
	}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 50},
		{ExpenseID: 1, UserID: 2, Amount: 50},
		{ExpenseID: 2, UserID: 1, Amount: 20},
		{ExpenseID: 2, UserID: 2, Amount: 20},
	}

	one := Aggregate(1, payers, splits, nil)
	two := Aggregate(2, payers, splits, nil)

	// 2 owes 1 50, 1 owes 2 20; nets to 2 owing 1 exactly 30.
	if len(one.OwedBy) != 1 || !almostEqual(one.OwedBy[0].Amount, 30) {
		t.Fatalf("user 1 owed_by = %v, want [{2 30}]", one.OwedBy)
	}
	if len(two.OwesTo) != 1 || !almostEqual(two.OwesTo[0].Amount, 30) {
		t.Fatalf("user 2 owes_to = %v, want [{1 30}]", two.OwesTo)
	}
	if one.OwedBy[0].Amount != two.OwesTo[0].Amount {
		t.Errorf("asymmetric pair: %v vs %v", one.OwedBy[0].Amount, two.OwesTo[0].Amount)
	}
}

func TestAggregatePaymentReducesDebt(t *testing.T) {
	payers := []PayerRow{{ExpenseID: 1, UserID: 1, Amount: 200}}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 100},
		{ExpenseID: 1, UserID: 2, Amount: 100},
	}
	payments := []PaymentRow{{FromUserID: 2, ToUserID: 1, Amount: 40}}

	got := Aggregate(2, payers, splits, payments)

	want := []Entry{{UserID: 1, Amount: 60}}
	if !reflect.DeepEqual(got.OwesTo, want) {
		t.Errorf("owes_to = %v, want %v", got.OwesTo, want)
	}
	// Payments shift the net but not the expense totals.
	if got.TotalOwed != 100 {
		t.Errorf("total_owed = %v, want 100", got.TotalOwed)
	}
	if got.NetBalance != -60 {
		t.Errorf("net = %v, want -60", got.NetBalance)
	}
}

func TestAggregateFullSettlementDropsPair(t *testing.T) {
	payers := []PayerRow{{ExpenseID: 1, UserID: 1, Amount: 200}}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 100},
		{ExpenseID: 1, UserID: 2, Amount: 100},
	}
	payments := []PaymentRow{{FromUserID: 2, ToUserID: 1, Amount: 100}}

	got := Aggregate(2, payers, splits, payments)
	if len(got.OwesTo) != 0 || len(got.OwedBy) != 0 {
		t.Errorf("settled pair should be absent, got owes_to=%v owed_by=%v", got.OwesTo, got.OwedBy)
	}
	if got.NetBalance != 0 {
		t.Errorf("net = %v, want 0", got.NetBalance)
	}
}

func TestAggregateOverpaymentFlipsDirection(t *testing.T) {
	payers := []PayerRow{{ExpenseID: 1, UserID: 1, Amount: 100}}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 50},
		{ExpenseID: 1, UserID: 2, Amount: 50},
	}
	payments := []PaymentRow{{FromUserID: 2, ToUserID: 1, Amount: 70}}

	got := Aggregate(2, payers, splits, payments)
	want := []Entry{{UserID: 1, Amount: 20}}
	if !reflect.DeepEqual(got.OwedBy, want) {
		t.Errorf("owed_by = %v, want %v", got.OwedBy, want)
	}
	if len(got.OwesTo) != 0 {
		t.Errorf("owes_to = %v, want empty", got.OwesTo)
	}
}

func TestAggregateWithinToleranceTreatedSettled(t *testing.T) {
	payers := []PayerRow{{ExpenseID: 1, UserID: 1, Amount: 10}}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 5},
		{ExpenseID: 1, UserID: 2, Amount: 5},
	}
	payments := []PaymentRow{{FromUserID: 2, ToUserID: 1, Amount: 4.995}}

	got := Aggregate(2, payers, splits, payments)
	if len(got.OwesTo) != 0 {
		t.Errorf("residual within tolerance should be dropped, got %v", got.OwesTo)
	}
}

func TestAggregateMultiPayerProportional(t *testing.T) {
	// Users 1 and 2 front 60 and 40 of a 100 expense; user 3's 30 share
	// is owed 18/12 proportionally.
	payers := []PayerRow{
		{ExpenseID: 1, UserID: 1, Amount: 60},
		{ExpenseID: 1, UserID: 2, Amount: 40},
	}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 35},
		{ExpenseID: 1, UserID: 2, Amount: 35},
		{ExpenseID: 1, UserID: 3, Amount: 30},
	}

	got := Aggregate(3, payers, splits, nil)
	want := []Entry{{UserID: 1, Amount: 18}, {UserID: 2, Amount: 12}}
	if !reflect.DeepEqual(got.OwesTo, want) {
		t.Errorf("owes_to = %v, want %v", got.OwesTo, want)
	}
	if got.NetBalance != -30 {
		t.Errorf("net = %v, want -30", got.NetBalance)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	payers := []PayerRow{
		{ExpenseID: 1, UserID: 1, Amount: 90},
		{ExpenseID: 2, UserID: 2, Amount: 30},
	}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 30},
		{ExpenseID: 1, UserID: 2, Amount: 30},
		{ExpenseID: 1, UserID: 3, Amount: 30},
		{ExpenseID: 2, UserID: 1, Amount: 15},
		{ExpenseID: 2, UserID: 2, Amount: 15},
	}
	payments := []PaymentRow{{FromUserID: 3, ToUserID: 1, Amount: 10}}

	first := Aggregate(1, payers, splits, payments)
	second := Aggregate(1, payers, splits, payments)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation diverged: %v vs %v", first, second)
	}
}

func TestAggregateParallelDebtsSummed(t *testing.T) {
	payers := []PayerRow{
		{ExpenseID: 1, UserID: 1, Amount: 50},
		{ExpenseID: 2, UserID: 1, Amount: 30},
	}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 2, Amount: 50},
		{ExpenseID: 2, UserID: 2, Amount: 30},
	}

	got := Aggregate(2, payers, splits, nil)
	want := []Entry{{UserID: 1, Amount: 80}}
	if !reflect.DeepEqual(got.OwesTo, want) {
		t.Errorf("owes_to = %v, want %v", got.OwesTo, want)
	}
}

func TestAggregateEntriesSortedByUserID(t *testing.T) {
	payers := []PayerRow{
		{ExpenseID: 1, UserID: 7, Amount: 10},
		{ExpenseID: 2, UserID: 3, Amount: 10},
		{ExpenseID: 3, UserID: 5, Amount: 10},
	}
	splits := []SplitRow{
		{ExpenseID: 1, UserID: 1, Amount: 10},
		{ExpenseID: 2, UserID: 1, Amount: 10},
		{ExpenseID: 3, UserID: 1, Amount: 10},
	}

	got := Aggregate(1, payers, splits, nil)
	if len(got.OwesTo) != 3 {
		t.Fatalf("owes_to has %d entries, want 3", len(got.OwesTo))
	}
	for i := 1; i < len(got.OwesTo); i++ {
		if got.OwesTo[i-1].UserID >= got.OwesTo[i].UserID {
			t.Errorf("entries not sorted: %v", got.OwesTo)
		}
	}
}
