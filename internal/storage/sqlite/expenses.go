package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventease/internal/models"
)

// CreateExpense persists an expense with its full split in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (id, event_id, title, description, amount, category, paid_by, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.Title, expense.Description,
		expense.Amount, expense.Category, expense.PaidBy.ID, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.SplitBetween {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount, position) VALUES (?, ?, ?, ?)",
			expense.ID, split.User.ID, split.Amount, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpensesByEvent returns an event's expenses, newest date first, with
// payer and split users populated.
func (s *SQLiteStore) ListExpensesByEvent(ctx context.Context, eventID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.event_id, e.title, e.description, e.amount, e.category,
		       e.paid_by, u.username, u.email, e.date, e.created_at
		FROM expenses e
		JOIN users u ON u.id = e.paid_by
		WHERE e.event_id = ?
		ORDER BY e.date DESC, e.created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp := &models.Expense{}
		if err := rows.Scan(
			&exp.ID, &exp.EventID, &exp.Title, &exp.Description, &exp.Amount, &exp.Category,
			&exp.PaidBy.ID, &exp.PaidBy.Username, &exp.PaidBy.Email, &exp.Date, &exp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, exp := range expenses {
		splitRows, err := s.db.QueryContext(ctx, `
			SELECT sp.user_id, u.username, u.email, sp.amount
			FROM expense_splits sp
			JOIN users u ON u.id = sp.user_id
			WHERE sp.expense_id = ?
			ORDER BY sp.position`,
			exp.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get expense splits: %w", err)
		}

		for splitRows.Next() {
			var split models.SplitShare
			if err := splitRows.Scan(&split.User.ID, &split.User.Username, &split.User.Email, &split.Amount); err != nil {
				splitRows.Close()
				return nil, fmt.Errorf("failed to scan expense split: %w", err)
			}
			exp.SplitBetween = append(exp.SplitBetween, split)
		}
		splitRows.Close()
		if err := splitRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
		}
	}

	return expenses, nil
}

// TotalExpensesForUser sums the amounts of all expenses in events where the
// user is organizer or participant.
func (s *SQLiteStore) TotalExpensesForUser(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM expenses e
		WHERE e.event_id IN (
			SELECT id FROM events WHERE organizer_id = ?
			UNION
			SELECT event_id FROM event_participants WHERE user_id = ?
		)`,
		userID, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to total expenses: %w", err)
	}

	return total, nil
}
