package service

import (
	"context"
	"log/slog"
	"time"

	"eventease/internal/calculator"
	"eventease/internal/domain"
	"eventease/internal/models"
	"eventease/internal/storage"
)

// ExpenseService records expenses and produces balance reports.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// BalanceEntry is one user's position in the summary report.
type BalanceEntry struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// SettlementSuggestion is a proposed transfer that helps clear the event's
// balances.
type SettlementSuggestion struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Summary is the balance report for one event's expense ledger.
type Summary struct {
	TotalExpenses float64                 `json:"totalExpenses"`
	ExpenseCount  int                     `json:"expenseCount"`
	Balances      map[string]BalanceEntry `json:"balances"`
	Settlements   []SettlementSuggestion  `json:"settlements"`
	Expenses      []*models.Expense       `json:"expenses"`
}

// Record validates and persists an expense paid by the caller. The caller
// must be the organizer or a participant of the event, and the split
// allocations must sum to the amount within the tolerance.
func (s *ExpenseService) Record(ctx context.Context, actorID string, in *models.ExpenseInput) (*models.Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if !event.HasAccess(actorID) {
		return nil, domain.New(domain.CodeNotAuthorized, "access denied")
	}

	expense := &models.Expense{
		EventID:     in.EventID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		PaidBy:      models.UserRef{ID: actorID},
		Date:        in.Date,
	}
	for _, split := range in.SplitBetween {
		expense.SplitBetween = append(expense.SplitBetween, models.SplitShare{
			User:   models.UserRef{ID: split.UserID},
			Amount: split.Amount,
		})
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("Record expense failed", "event_id", in.EventID, "actor", actorID, "error", err)
		return nil, domain.Wrap(domain.CodeStore, "failed to record expense", err)
	}

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"event_id", in.EventID,
		"amount", in.Amount,
		"paid_by", actorID,
	)
	return s.populate(ctx, expense)
}

// populate reloads the stored expense so payer and split users carry their
// display fields.
func (s *ExpenseService) populate(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	expenses, err := s.store.ListExpensesByEvent(ctx, expense.EventID)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to load expense", err)
	}
	for _, e := range expenses {
		if e.ID == expense.ID {
			return e, nil
		}
	}
	return nil, domain.New(domain.CodeNotFound, "expense not found")
}

// ListForEvent returns the event's expenses, newest first. The caller must
// be the organizer or a participant.
func (s *ExpenseService) ListForEvent(ctx context.Context, actorID, eventID string) ([]*models.Expense, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasAccess(actorID) {
		return nil, domain.New(domain.CodeNotAuthorized, "access denied")
	}

	expenses, err := s.store.ListExpensesByEvent(ctx, eventID)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to list expenses", err)
	}
	return expenses, nil
}

// Summarize aggregates the event's ledger into per-user balances, totals
// and settlement suggestions. The caller must be the organizer or a
// participant. The report is a pure function of the stored expense set.
func (s *ExpenseService) Summarize(ctx context.Context, actorID, eventID string) (*Summary, error) {
	expenses, err := s.ListForEvent(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}

	lines := make([]calculator.ExpenseLine, 0, len(expenses))
	var total float64
	for _, exp := range expenses {
		total += exp.Amount
		line := calculator.ExpenseLine{
			Amount:    exp.Amount,
			PayerID:   exp.PaidBy.ID,
			PayerName: exp.PaidBy.Username,
		}
		for _, split := range exp.SplitBetween {
			line.Splits = append(line.Splits, calculator.Share{
				UserID:   split.User.ID,
				Username: split.User.Username,
				Amount:   split.Amount,
			})
		}
		lines = append(lines, line)
	}

	balances := calculator.ComputeBalances(lines)

	summary := &Summary{
		TotalExpenses: total,
		ExpenseCount:  len(expenses),
		Balances:      make(map[string]BalanceEntry, len(balances)),
		Expenses:      expenses,
	}
	for id, b := range balances {
		summary.Balances[id] = BalanceEntry{Username: b.Username, Balance: b.Net}
	}
	for _, t := range calculator.SuggestSettlements(balances) {
		summary.Settlements = append(summary.Settlements, SettlementSuggestion{
			From:   t.FromID,
			To:     t.ToID,
			Amount: t.Amount,
		})
	}

	return summary, nil
}

// TotalForUser sums the caller's visible expenses: every expense belonging
// to an event where they are organizer or participant.
func (s *ExpenseService) TotalForUser(ctx context.Context, userID string) (float64, error) {
	total, err := s.store.TotalExpensesForUser(ctx, userID)
	if err != nil {
		return 0, domain.Wrap(domain.CodeStore, "failed to total expenses", err)
	}
	return total, nil
}
