package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"eventease/internal/domain"
	"eventease/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()

	user := models.NewUser(username+"@example.com", username, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return user
}

func seedEvent(t *testing.T, store *SQLiteStore, organizer *models.User, policy models.JoinPolicy) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:       "Summer Trip",
		Description: "A week by the coast",
		Type:        models.EventTrip,
		StartDate:   1751328000,
		EndDate:     1751932800,
		Location:    "Lisbon",
		Budget:      1200,
		OrganizerID: organizer.ID,
		Status:      models.StatusPlanning,
		JoinPolicy:  policy,
		Tags:        []string{"beach", "summer"},
		Participants: []models.Participant{
			{User: models.UserRef{ID: organizer.ID}, Role: models.RoleOrganizer, JoinedAt: 1751328000},
		},
	}
	if err := store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	carol := seedUser(t, store, "carol")

	t.Run("CreateEvent generates ID and round-trips the aggregate", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinOpen)
		if event.ID == "" {
			t.Fatal("Expected event ID to be generated")
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Title != event.Title {
			t.Errorf("Title mismatch: got %s, want %s", got.Title, event.Title)
		}
		if got.Organizer.Username != "alice" {
			t.Errorf("Expected organizer to be populated, got %+v", got.Organizer)
		}
		if len(got.Participants) != 1 {
			t.Fatalf("Expected 1 participant, got %d", len(got.Participants))
		}
		if got.Participants[0].Role != models.RoleOrganizer {
			t.Errorf("Expected organizer role, got %s", got.Participants[0].Role)
		}
		if got.Participants[0].User.Email != "alice@example.com" {
			t.Errorf("Expected participant user to be populated, got %+v", got.Participants[0].User)
		}
		if len(got.Tags) != 2 {
			t.Errorf("Expected 2 tags, got %d", len(got.Tags))
		}
	})

	t.Run("GetEvent returns not_found for unknown ID", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "no-such-event")
		if !domain.Is(err, domain.CodeNotFound) {
			t.Errorf("Expected not_found, got %v", err)
		}
	})

	t.Run("AddParticipant rejects duplicates", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinOpen)
		p := models.Participant{User: models.UserRef{ID: bob.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100}

		if err := store.AddParticipant(ctx, event.ID, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		err := store.AddParticipant(ctx, event.ID, p)
		if !domain.Is(err, domain.CodeConflict) {
			t.Errorf("Expected conflict on duplicate participant, got %v", err)
		}
	})

	t.Run("RemoveParticipant is a no-op for absent users", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinOpen)
		if err := store.RemoveParticipant(ctx, event.ID, bob.ID); err != nil {
			t.Errorf("Expected no error removing absent user, got %v", err)
		}
	})

	t.Run("AddJoinRequest rejects duplicates", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinApprovalRequired)

		if err := store.AddJoinRequest(ctx, event.ID, bob.ID); err != nil {
			t.Fatalf("AddJoinRequest failed: %v", err)
		}
		err := store.AddJoinRequest(ctx, event.ID, bob.ID)
		if !domain.Is(err, domain.CodeConflict) {
			t.Errorf("Expected conflict on duplicate request, got %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if len(got.PendingJoinRequests) != 1 || got.PendingJoinRequests[0] != bob.ID {
			t.Errorf("Expected pending request for bob, got %v", got.PendingJoinRequests)
		}
	})

	t.Run("ApproveJoinRequest consumes the request exactly once", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinApprovalRequired)
		if err := store.AddJoinRequest(ctx, event.ID, bob.ID); err != nil {
			t.Fatalf("AddJoinRequest failed: %v", err)
		}

		p := models.Participant{User: models.UserRef{ID: bob.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100}
		if err := store.ApproveJoinRequest(ctx, event.ID, p); err != nil {
			t.Fatalf("ApproveJoinRequest failed: %v", err)
		}

		// The second approval must fail: the request was already consumed.
		err := store.ApproveJoinRequest(ctx, event.ID, p)
		if !domain.Is(err, domain.CodeNotFound) {
			t.Errorf("Expected not_found on second approval, got %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if len(got.PendingJoinRequests) != 0 {
			t.Errorf("Expected empty pending queue, got %v", got.PendingJoinRequests)
		}
		if _, ok := got.RoleOf(bob.ID); !ok {
			t.Error("Expected bob to be a participant after approval")
		}
	})

	t.Run("AddParticipant consumes a pending join request", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinApprovalRequired)
		if err := store.AddJoinRequest(ctx, event.ID, bob.ID); err != nil {
			t.Fatalf("AddJoinRequest failed: %v", err)
		}

		p := models.Participant{User: models.UserRef{ID: bob.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100}
		if err := store.AddParticipant(ctx, event.ID, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if _, ok := got.RoleOf(bob.ID); !ok {
			t.Error("Expected bob to be a participant")
		}
		if len(got.PendingJoinRequests) != 0 {
			t.Errorf("Expected pending queue cleared, got %v", got.PendingJoinRequests)
		}
	})

	t.Run("ApproveJoinRequest without a pending request fails", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinApprovalRequired)
		p := models.Participant{User: models.UserRef{ID: carol.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100}

		err := store.ApproveJoinRequest(ctx, event.ID, p)
		if !domain.Is(err, domain.CodeNotFound) {
			t.Errorf("Expected not_found, got %v", err)
		}
	})

	t.Run("UpdateEvent rewrites row and tags only", func(t *testing.T) {
		event := seedEvent(t, store, alice, models.JoinOpen)
		if err := store.AddParticipant(ctx, event.ID, models.Participant{
			User: models.UserRef{ID: bob.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100,
		}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		event.Title = "Autumn Trip"
		event.Status = models.StatusActive
		event.Tags = []string{"autumn"}
		if err := store.UpdateEvent(ctx, event); err != nil {
			t.Fatalf("UpdateEvent failed: %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Title != "Autumn Trip" || got.Status != models.StatusActive {
			t.Errorf("Update not applied: got %s/%s", got.Title, got.Status)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "autumn" {
			t.Errorf("Expected tags rewritten, got %v", got.Tags)
		}
		if len(got.Participants) != 2 {
			t.Errorf("Expected membership untouched, got %d participants", len(got.Participants))
		}
	})

	t.Run("ListEventsForUser covers organizer and participant roles", func(t *testing.T) {
		fresh := newTestStore(t)
		dave := seedUser(t, fresh, "dave")
		erin := seedUser(t, fresh, "erin")

		organized := seedEvent(t, fresh, dave, models.JoinOpen)
		joined := seedEvent(t, fresh, erin, models.JoinOpen)
		seedEvent(t, fresh, erin, models.JoinOpen) // dave has no access

		if err := fresh.AddParticipant(ctx, joined.ID, models.Participant{
			User: models.UserRef{ID: dave.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100,
		}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		events, err := fresh.ListEventsForUser(ctx, dave.ID)
		if err != nil {
			t.Fatalf("ListEventsForUser failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(events))
		}
		seen := map[string]bool{}
		for _, e := range events {
			seen[e.ID] = true
		}
		if !seen[organized.ID] || !seen[joined.ID] {
			t.Errorf("Expected both events, got %v", seen)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	event := seedEvent(t, store, alice, models.JoinOpen)
	if err := store.AddParticipant(ctx, event.ID, models.Participant{
		User: models.UserRef{ID: bob.ID}, Role: models.RoleParticipant, JoinedAt: 1751328100,
	}); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}

	t.Run("CreateExpense persists ordered splits", func(t *testing.T) {
		expense := &models.Expense{
			EventID:  event.ID,
			Title:    "Groceries",
			Amount:   60,
			Category: models.CategoryFood,
			PaidBy:   models.UserRef{ID: alice.ID},
			Date:     1751414400,
			SplitBetween: []models.SplitShare{
				{User: models.UserRef{ID: alice.ID}, Amount: 30},
				{User: models.UserRef{ID: bob.ID}, Amount: 30},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Fatal("Expected expense ID to be generated")
		}

		expenses, err := store.ListExpensesByEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListExpensesByEvent failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(expenses))
		}
		got := expenses[0]
		if got.PaidBy.Username != "alice" {
			t.Errorf("Expected payer to be populated, got %+v", got.PaidBy)
		}
		if len(got.SplitBetween) != 2 {
			t.Fatalf("Expected 2 splits, got %d", len(got.SplitBetween))
		}
		if got.SplitBetween[0].User.ID != alice.ID || got.SplitBetween[1].User.ID != bob.ID {
			t.Errorf("Expected splits in insertion order, got %+v", got.SplitBetween)
		}
	})

	t.Run("TotalExpensesForUser sums only visible events", func(t *testing.T) {
		outsider := seedUser(t, store, "outsider")

		total, err := store.TotalExpensesForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("TotalExpensesForUser failed: %v", err)
		}
		if total != 60 {
			t.Errorf("Expected total 60, got %f", total)
		}

		total, err = store.TotalExpensesForUser(ctx, outsider.ID)
		if err != nil {
			t.Fatalf("TotalExpensesForUser failed: %v", err)
		}
		if total != 0 {
			t.Errorf("Expected total 0 for outsider, got %f", total)
		}
	})
}

func TestSQLiteStoreTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	event := seedEvent(t, store, alice, models.JoinOpen)

	t.Run("CreateTask and GetTask round-trip", func(t *testing.T) {
		task := &models.Task{
			EventID:     event.ID,
			Title:       "Book the house",
			Description: "Six beds minimum",
			AssignedTo:  bob.ID,
			Status:      models.TaskPending,
			CreatedBy:   alice.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		got, err := store.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Title != task.Title {
			t.Errorf("Title mismatch: got %s, want %s", got.Title, task.Title)
		}
		if got.Assignee == nil || got.Assignee.Username != "bob" {
			t.Errorf("Expected assignee to be populated, got %+v", got.Assignee)
		}
	})

	t.Run("Unassigned tasks carry a nil assignee", func(t *testing.T) {
		task := &models.Task{
			EventID:   event.ID,
			Title:     "Pick a date",
			Status:    models.TaskPending,
			CreatedBy: alice.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		got, err := store.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.AssignedTo != "" || got.Assignee != nil {
			t.Errorf("Expected no assignee, got %q / %+v", got.AssignedTo, got.Assignee)
		}
	})

	t.Run("UpdateTask rewrites the row", func(t *testing.T) {
		task := &models.Task{
			EventID:   event.ID,
			Title:     "Rent a car",
			Status:    models.TaskPending,
			CreatedBy: alice.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		task.Status = models.TaskCompleted
		task.AssignedTo = bob.ID
		if err := store.UpdateTask(ctx, task); err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}

		got, err := store.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Status != models.TaskCompleted {
			t.Errorf("Expected completed, got %s", got.Status)
		}
		if got.Assignee == nil || got.Assignee.ID != bob.ID {
			t.Errorf("Expected bob assigned, got %+v", got.Assignee)
		}
	})

	t.Run("DeleteTask removes the row", func(t *testing.T) {
		task := &models.Task{
			EventID:   event.ID,
			Title:     "Cancel me",
			Status:    models.TaskPending,
			CreatedBy: alice.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		if err := store.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		_, err := store.GetTask(ctx, task.ID)
		if !domain.Is(err, domain.CodeNotFound) {
			t.Errorf("Expected not_found after delete, got %v", err)
		}
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user != nil {
			t.Errorf("Expected nil user, got %+v", user)
		}
	})

	t.Run("CreateUser and lookups round-trip", func(t *testing.T) {
		alice := seedUser(t, store, "alice")

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.ID != alice.ID {
			t.Fatalf("Expected alice, got %+v", byEmail)
		}

		byID, err := store.GetUserByID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != "alice@example.com" {
			t.Fatalf("Expected alice, got %+v", byID)
		}
	})
}
