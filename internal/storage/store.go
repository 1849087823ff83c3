// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"eventease/internal/models"
)

// Store defines the persistence interface for events, expenses, tasks and
// users. This abstraction allows swapping storage backends without changing
// the service layer.
//
// Semantic failures are reported as domain errors: CodeConflict for
// duplicate membership or duplicate join requests, CodeNotFound for absent
// aggregates or already-consumed requests. Mutations re-assert their
// preconditions at commit time, so concurrent organizer actions on the same
// event cannot duplicate a membership record or approve a request twice.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail resolves an email (lowercased by the caller) to a
	// user. Returns (nil, nil) when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateEvent persists a new event aggregate, including its initial
	// participant list and tags, in one transaction. ID and CreatedAt are
	// populated when unset.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent loads the whole aggregate: event row, populated
	// participants, pending join requests and tags. Returns CodeNotFound
	// when absent.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEventsForUser returns all events where the user is organizer or
	// participant, newest start date first.
	ListEventsForUser(ctx context.Context, userID string) ([]*models.Event, error)

	// UpdateEvent rewrites the event row and tags. Membership and the
	// pending queue are untouched; they move only through the dedicated
	// mutations below.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// AddParticipant appends a membership record and consumes any pending
	// join request for the same user, so the pending queue stays disjoint
	// from the participant list. Returns CodeConflict if the user is
	// already a participant.
	AddParticipant(ctx context.Context, eventID string, p models.Participant) error

	// RemoveParticipant deletes a membership record. Removing an absent
	// user is a no-op.
	RemoveParticipant(ctx context.Context, eventID, userID string) error

	// AddJoinRequest enqueues a pending join request. Returns CodeConflict
	// if one is already pending.
	AddJoinRequest(ctx context.Context, eventID, userID string) error

	// ApproveJoinRequest consumes the pending request and appends the
	// membership record in one transaction. Returns CodeNotFound if no
	// request is pending (including when it was consumed by a concurrent
	// approval) and CodeConflict if the user is somehow already a member.
	ApproveJoinRequest(ctx context.Context, eventID string, p models.Participant) error

	// CreateExpense persists an expense with its full split atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByEvent returns an event's expenses, newest date first,
	// with payer and split users populated.
	ListExpensesByEvent(ctx context.Context, eventID string) ([]*models.Expense, error)

	// TotalExpensesForUser sums the amounts of all expenses in events
	// where the user is organizer or participant.
	TotalExpensesForUser(ctx context.Context, userID string) (float64, error)

	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by ID. Returns CodeNotFound when absent.
	GetTask(ctx context.Context, taskID string) (*models.Task, error)

	// ListTasksByEvent returns an event's tasks, newest first, with
	// assignees populated.
	ListTasksByEvent(ctx context.Context, eventID string) ([]*models.Task, error)

	// UpdateTask rewrites a task row.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes a task by ID.
	DeleteTask(ctx context.Context, taskID string) error

	// Close releases any resources held by the store.
	Close() error
}
