// Package calculator holds the pure balance math for an event's expense
// ledger. It has no storage or transport dependencies; services feed it
// minimal expense views and render the results.
package calculator

import "sort"

// Share is one user's allocation of an expense.
type Share struct {
	UserID   string
	Username string
	Amount   float64
}

// ExpenseLine is the minimal expense view needed for balance calculation.
type ExpenseLine struct {
	Amount    float64
	PayerID   string
	PayerName string
	Splits    []Share
}

// UserBalance is one user's aggregated position across an event's expenses.
type UserBalance struct {
	UserID   string
	Username string
	Paid     float64 // Total amount fronted across all expenses
	Owed     float64 // Total of this user's split allocations
	Net      float64 // Paid - Owed; positive = owed money, negative = owes
}

// Transfer is a suggested settlement payment between two users.
type Transfer struct {
	FromID string
	ToID   string
	Amount float64
}

// noise is the floor below which residual balances are treated as
// floating-point dust rather than real debt.
const noise = 0.01

// ComputeBalances aggregates expenses into per-user paid/owed/net figures.
//
// For each expense the payer is credited the full amount and every split
// user is debited their allocation. The result is a pure function of the
// expense set: permuting the input changes nothing beyond least-significant
// rounding, which stays far below the 0.01 tolerance used elsewhere.
func ComputeBalances(expenses []ExpenseLine) map[string]*UserBalance {
	balances := make(map[string]*UserBalance)

	ensure := func(id, name string) *UserBalance {
		b, ok := balances[id]
		if !ok {
			b = &UserBalance{UserID: id, Username: name}
			balances[id] = b
		}
		if b.Username == "" {
			b.Username = name
		}
		return b
	}

	for _, exp := range expenses {
		if exp.PayerID == "" {
			continue
		}
		ensure(exp.PayerID, exp.PayerName).Paid += exp.Amount
		for _, s := range exp.Splits {
			ensure(s.UserID, s.Username).Owed += s.Amount
		}
	}

	for _, b := range balances {
		b.Net = b.Paid - b.Owed
	}
	return balances
}

// SuggestSettlements produces a short list of transfers that clears all net
// balances, greedily matching the largest debtor against the largest
// creditor. Output is deterministic: candidates are ordered by magnitude,
// ties broken by user ID.
func SuggestSettlements(balances map[string]*UserBalance) []Transfer {
	var debtors, creditors []*UserBalance
	for _, b := range balances {
		switch {
		case b.Net < -noise:
			debtors = append(debtors, b)
		case b.Net > noise:
			creditors = append(creditors, b)
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].Net != debtors[j].Net {
			return debtors[i].Net < debtors[j].Net // most negative first
		}
		return debtors[i].UserID < debtors[j].UserID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].Net != creditors[j].Net {
			return creditors[i].Net > creditors[j].Net // most positive first
		}
		return creditors[i].UserID < creditors[j].UserID
	})

	owes := make(map[string]float64, len(debtors))
	for _, d := range debtors {
		owes[d.UserID] = -d.Net
	}
	due := make(map[string]float64, len(creditors))
	for _, c := range creditors {
		due[c.UserID] = c.Net
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].UserID
		creditor := creditors[j].UserID

		amount := owes[debtor]
		if due[creditor] < amount {
			amount = due[creditor]
		}
		if amount > noise {
			transfers = append(transfers, Transfer{FromID: debtor, ToID: creditor, Amount: amount})
		}

		owes[debtor] -= amount
		due[creditor] -= amount
		if owes[debtor] < noise {
			i++
		}
		if due[creditor] < noise {
			j++
		}
	}
	return transfers
}
