// Package balance reduces a scope's full expense and payment history into
// net debts between pairs of users. The reduction is pure and recomputed
// from persisted state on every read; it is the source of truth, so partial
// updates can never make balances drift.
package balance

import "math"

// settleTolerance is one minor currency unit. Pairs whose net debt falls
// within it are treated as settled and dropped, not reported as zero.
const settleTolerance = 0.01

// PayerRow is one expense_payers record in scope.
type PayerRow struct {
	ExpenseID int64
	UserID    int64
	Amount    float64
}

// SplitRow is one expense_splits record in scope.
type SplitRow struct {
	ExpenseID int64
	UserID    int64
	Amount    float64
}

// PaymentRow is one payment in scope.
type PaymentRow struct {
	FromUserID int64
	ToUserID   int64
	Amount     float64
}

// Entry is one counterparty in a balance summary.
type Entry struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username,omitempty"`
	Amount   float64 `json:"amount"`
}

// Summary is a user's balance view of a scope (one group, or all groups).
// TotalPaid and TotalOwed reflect expense participation only; payments
// shift who-owes-whom and the net, never the totals.
type Summary struct {
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
	NetBalance float64 `json:"net_balance"`
	OwesTo     []Entry `json:"owes_to"`
	OwedBy     []Entry `json:"owed_by"`
}

// Aggregate computes userID's balance summary from the scope's complete
// expense and payment history.
//
// Every split participant owes each payer of the expense their share (for a
// multi-payer expense, attributed proportionally to what each payer
// fronted). Parallel debts between the same pair are summed, payments
// subtract from the from→to direction, and each unordered pair nets to a
// single direction. A user with nothing in scope gets the zero shape, not
// an error.
func Aggregate(userID int64, payers []PayerRow, splits []SplitRow, payments []PaymentRow) *Summary {
	expenseTotal := make(map[int64]float64)
	expensePayers := make(map[int64][]PayerRow)
	for _, p := range payers {
		expenseTotal[p.ExpenseID] += p.Amount
		expensePayers[p.ExpenseID] = append(expensePayers[p.ExpenseID], p)
	}

	// debts[debtor][creditor] = amount
	debts := make(map[int64]map[int64]float64)
	addDebt := func(debtor, creditor int64, amount float64) {
		if debts[debtor] == nil {
			debts[debtor] = make(map[int64]float64)
		}
		debts[debtor][creditor] += amount
	}

	summary := &Summary{OwesTo: []Entry{}, OwedBy: []Entry{}}

	for _, p := range payers {
		if p.UserID == userID {
			summary.TotalPaid += p.Amount
		}
	}

	for _, s := range splits {
		if s.UserID == userID {
			summary.TotalOwed += s.Amount
		}
		total := expenseTotal[s.ExpenseID]
		if total <= 0 {
			continue
		}
		for _, p := range expensePayers[s.ExpenseID] {
			if p.UserID == s.UserID {
				continue
			}
			addDebt(s.UserID, p.UserID, s.Amount*(p.Amount/total))
		}
	}

	var paymentsMade, paymentsReceived float64
	for _, p := range payments {
		addDebt(p.FromUserID, p.ToUserID, -p.Amount)
		if p.FromUserID == userID {
			paymentsMade += p.Amount
		}
		if p.ToUserID == userID {
			paymentsReceived += p.Amount
		}
	}

	// Net each unordered pair involving userID to a single direction.
	for other := range counterparties(debts, userID) {
		net := debts[userID][other] - debts[other][userID]
		switch {
		case net > settleTolerance:
			summary.OwesTo = append(summary.OwesTo, Entry{UserID: other, Amount: round2(net)})
		case net < -settleTolerance:
			summary.OwedBy = append(summary.OwedBy, Entry{UserID: other, Amount: round2(-net)})
		}
	}

	sortEntries(summary.OwesTo)
	sortEntries(summary.OwedBy)

	summary.TotalPaid = round2(summary.TotalPaid)
	summary.TotalOwed = round2(summary.TotalOwed)
	summary.NetBalance = round2(summary.TotalPaid - summary.TotalOwed + paymentsMade - paymentsReceived)

	return summary
}

// counterparties returns every user sharing a debt edge with userID, in
// either direction.
func counterparties(debts map[int64]map[int64]float64, userID int64) map[int64]bool {
	others := make(map[int64]bool)
	for creditor := range debts[userID] {
		others[creditor] = true
	}
	for debtor, owed := range debts {
		if debtor == userID {
			continue
		}
		if _, ok := owed[userID]; ok {
			others[debtor] = true
		}
	}
	return others
}

func sortEntries(entries []Entry) {
	// Deterministic output for identical state (map iteration is not).
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].UserID > entries[j].UserID; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
