package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventease/internal/domain"
	"eventease/internal/models"
)

// expenseFixture sets up an open event with three members and returns the
// services bound to one store.
func expenseFixture(t *testing.T) (*ExpenseService, *models.Event, *models.User, *models.User, *models.User) {
	t.Helper()

	store := newTestStore(t)
	events := NewEventService(store)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")

	event, err := events.Create(ctx, alice.ID, eventInput(models.JoinOpen))
	require.NoError(t, err)
	_, err = events.Join(ctx, bob.ID, event.ID)
	require.NoError(t, err)
	_, err = events.Join(ctx, carol.ID, event.ID)
	require.NoError(t, err)

	return NewExpenseService(store), event, alice, bob, carol
}

func TestExpenseRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("records and populates payer and splits", func(t *testing.T) {
		svc, event, alice, bob, _ := expenseFixture(t)

		expense, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Groceries",
			Amount:   60,
			Category: models.CategoryFood,
			SplitBetween: []models.SplitInput{
				{UserID: alice.ID, Amount: 30},
				{UserID: bob.ID, Amount: 30},
			},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, expense.ID)
		assert.Equal(t, "alice", expense.PaidBy.Username, "payer is always the caller")
		assert.NotZero(t, expense.Date, "date defaults to now")
		require.Len(t, expense.SplitBetween, 2)
		assert.Equal(t, "bob", expense.SplitBetween[1].User.Username)
	})

	t.Run("rejects a split that does not sum to the amount", func(t *testing.T) {
		svc, event, alice, bob, _ := expenseFixture(t)

		_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Groceries",
			Amount:   60,
			Category: models.CategoryFood,
			SplitBetween: []models.SplitInput{
				{UserID: alice.ID, Amount: 30},
				{UserID: bob.ID, Amount: 29.5},
			},
		})
		require.Error(t, err)
		assert.True(t, domain.Is(err, domain.CodeConflict))
		assert.Equal(t, "split amounts must equal total amount", domain.MessageOf(err))
	})

	t.Run("tolerates sub-cent rounding in the split", func(t *testing.T) {
		svc, event, alice, bob, carol := expenseFixture(t)

		_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Fuel",
			Amount:   100,
			Category: models.CategoryTransport,
			SplitBetween: []models.SplitInput{
				{UserID: alice.ID, Amount: 33.33},
				{UserID: bob.ID, Amount: 33.33},
				{UserID: carol.ID, Amount: 33.335},
			},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a split listing the same user twice", func(t *testing.T) {
		svc, event, alice, _, _ := expenseFixture(t)

		_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Groceries",
			Amount:   60,
			Category: models.CategoryFood,
			SplitBetween: []models.SplitInput{
				{UserID: alice.ID, Amount: 30},
				{UserID: alice.ID, Amount: 30},
			},
		})
		require.Error(t, err)
		assert.True(t, domain.Is(err, domain.CodeValidation))
		assert.Equal(t, "split lists the same user more than once", domain.MessageOf(err))
	})

	t.Run("non-participant cannot record", func(t *testing.T) {
		svc, event, _, _, _ := expenseFixture(t)
		mallory := seedUser(t, svc.store, "mallory")

		_, err := svc.Record(ctx, mallory.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Sneaky",
			Amount:   10,
			Category: models.CategoryOther,
			SplitBetween: []models.SplitInput{
				{UserID: mallory.ID, Amount: 10},
			},
		})
		assert.True(t, domain.Is(err, domain.CodeNotAuthorized))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, event, alice, _, _ := expenseFixture(t)

		_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
			EventID:  event.ID,
			Title:    "Nothing",
			Amount:   0,
			Category: models.CategoryOther,
			SplitBetween: []models.SplitInput{
				{UserID: alice.ID, Amount: 0},
			},
		})
		assert.True(t, domain.Is(err, domain.CodeValidation))
	})
}

func TestExpenseListForEvent(t *testing.T) {
	ctx := context.Background()
	svc, event, alice, bob, _ := expenseFixture(t)

	_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
		EventID:  event.ID,
		Title:    "Groceries",
		Amount:   60,
		Category: models.CategoryFood,
		SplitBetween: []models.SplitInput{
			{UserID: alice.ID, Amount: 30},
			{UserID: bob.ID, Amount: 30},
		},
	})
	require.NoError(t, err)

	expenses, err := svc.ListForEvent(ctx, bob.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	mallory := seedUser(t, svc.store, "mallory")
	_, err = svc.ListForEvent(ctx, mallory.ID, event.ID)
	assert.True(t, domain.Is(err, domain.CodeNotAuthorized))
}

func TestExpenseSummarize(t *testing.T) {
	ctx := context.Background()
	svc, event, alice, bob, carol := expenseFixture(t)

	// Alice fronts 90 split three ways, Bob fronts 30 split three ways.
	_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
		EventID:  event.ID,
		Title:    "House",
		Amount:   90,
		Category: models.CategoryAccommodation,
		SplitBetween: []models.SplitInput{
			{UserID: alice.ID, Amount: 30},
			{UserID: bob.ID, Amount: 30},
			{UserID: carol.ID, Amount: 30},
		},
	})
	require.NoError(t, err)

	_, err = svc.Record(ctx, bob.ID, &models.ExpenseInput{
		EventID:  event.ID,
		Title:    "Dinner",
		Amount:   30,
		Category: models.CategoryFood,
		SplitBetween: []models.SplitInput{
			{UserID: alice.ID, Amount: 10},
			{UserID: bob.ID, Amount: 10},
			{UserID: carol.ID, Amount: 10},
		},
	})
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, carol.ID, event.ID)
	require.NoError(t, err)

	assert.Equal(t, 120.0, summary.TotalExpenses)
	assert.Equal(t, 2, summary.ExpenseCount)
	assert.Len(t, summary.Expenses, 2)

	require.Len(t, summary.Balances, 3)
	assert.InDelta(t, 50, summary.Balances[alice.ID].Balance, 0.001)
	assert.InDelta(t, -10, summary.Balances[bob.ID].Balance, 0.001)
	assert.InDelta(t, -40, summary.Balances[carol.ID].Balance, 0.001)
	assert.Equal(t, "alice", summary.Balances[alice.ID].Username)

	// Settlements clear every balance: carol owes the most, so she pays first.
	require.Len(t, summary.Settlements, 2)
	assert.Equal(t, carol.ID, summary.Settlements[0].From)
	assert.Equal(t, alice.ID, summary.Settlements[0].To)
	assert.InDelta(t, 40, summary.Settlements[0].Amount, 0.001)
	assert.Equal(t, bob.ID, summary.Settlements[1].From)
	assert.InDelta(t, 10, summary.Settlements[1].Amount, 0.001)
}

func TestExpenseSummarizeEmptyLedger(t *testing.T) {
	ctx := context.Background()
	svc, event, alice, _, _ := expenseFixture(t)

	summary, err := svc.Summarize(ctx, alice.ID, event.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalExpenses)
	assert.Zero(t, summary.ExpenseCount)
	assert.Empty(t, summary.Balances)
	assert.Empty(t, summary.Settlements)
}

func TestExpenseTotalForUser(t *testing.T) {
	ctx := context.Background()
	svc, event, alice, bob, _ := expenseFixture(t)

	_, err := svc.Record(ctx, alice.ID, &models.ExpenseInput{
		EventID:  event.ID,
		Title:    "Groceries",
		Amount:   60,
		Category: models.CategoryFood,
		SplitBetween: []models.SplitInput{
			{UserID: alice.ID, Amount: 30},
			{UserID: bob.ID, Amount: 30},
		},
	})
	require.NoError(t, err)

	total, err := svc.TotalForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)

	mallory := seedUser(t, svc.store, "mallory")
	total, err = svc.TotalForUser(ctx, mallory.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}
