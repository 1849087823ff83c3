package models

// ExpenseCategory buckets an expense for reporting.
type ExpenseCategory string

const (
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryOther         ExpenseCategory = "other"
)

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case CategoryAccommodation, CategoryFood, CategoryTransport,
		CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// SplitEpsilon is the floating tolerance when comparing the sum of split
// allocations against the expense amount.
const SplitEpsilon = 0.01

// SplitShare is one user's allocation of an expense.
type SplitShare struct {
	User   UserRef `json:"user"`
	Amount float64 `json:"amount"`
}

// Expense is a single cost paid by one participant and split across users.
// Expenses are created atomically with their full split and are immutable
// afterwards.
type Expense struct {
	ID string `json:"id"`

	// EventID scopes the expense to exactly one event. Immutable.
	EventID string `json:"eventId"`

	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    ExpenseCategory `json:"category"`

	// PaidBy is the participant who fronted the money.
	PaidBy UserRef `json:"paidBy"`

	// SplitBetween is the ordered per-user allocation. The amounts sum to
	// Amount within SplitEpsilon.
	SplitBetween []SplitShare `json:"splitBetween"`

	// Date is when the expense occurred (Unix seconds).
	Date int64 `json:"date"`

	// CreatedAt is when the record was stored (Unix seconds).
	CreatedAt int64 `json:"createdAt"`
}

// SplitSum returns the total of the split allocations.
func (e *Expense) SplitSum() float64 {
	var sum float64
	for _, s := range e.SplitBetween {
		sum += s.Amount
	}
	return sum
}
