package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventease/internal/domain"
	"eventease/internal/models"
)

// CreateEvent persists the event aggregate: event row, initial participants
// and tags, in one transaction. IDs and timestamps are generated when unset.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, title, description, type, start_date, end_date,
			location, budget, organizer_id, status, join_policy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Description, event.Type,
		event.StartDate, event.EndDate, event.Location, event.Budget,
		event.OrganizerID, event.Status, event.JoinPolicy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, p := range event.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO event_participants (event_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
			event.ID, p.User.ID, p.Role, p.JoinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, tag := range event.Tags {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO event_tags (event_id, tag) VALUES (?, ?)",
			event.ID, tag,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEvent loads the whole aggregate with participants, pending requests
// and tags.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx, `
		SELECT e.id, e.title, e.description, e.type, e.start_date, e.end_date,
		       e.location, e.budget, e.organizer_id, e.status, e.join_policy, e.created_at,
		       u.username, u.email
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = ?`,
		eventID,
	).Scan(
		&event.ID, &event.Title, &event.Description, &event.Type,
		&event.StartDate, &event.EndDate, &event.Location, &event.Budget,
		&event.OrganizerID, &event.Status, &event.JoinPolicy, &event.CreatedAt,
		&event.Organizer.Username, &event.Organizer.Email,
	)
	if err == sql.ErrNoRows {
		return nil, domain.New(domain.CodeNotFound, "event not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.Organizer.ID = event.OrganizerID

	if err := s.loadEventDetails(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// loadEventDetails fills participants, pending requests and tags.
func (s *SQLiteStore) loadEventDetails(ctx context.Context, event *models.Event) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.user_id, u.username, u.email, p.role, p.joined_at
		FROM event_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = ?
		ORDER BY p.joined_at, p.user_id`,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.User.ID, &p.User.Username, &p.User.Email, &p.Role, &p.JoinedAt); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		event.Participants = append(event.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	reqRows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM event_join_requests WHERE event_id = ? ORDER BY requested_at, user_id",
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get join requests: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var userID string
		if err := reqRows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan join request: %w", err)
		}
		event.PendingJoinRequests = append(event.PendingJoinRequests, userID)
	}
	if err := reqRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate join requests: %w", err)
	}

	tagRows, err := s.db.QueryContext(ctx,
		"SELECT tag FROM event_tags WHERE event_id = ? ORDER BY tag",
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		event.Tags = append(event.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tags: %w", err)
	}

	return nil
}

// ListEventsForUser returns events where the user is organizer or
// participant, newest start date first.
func (s *SQLiteStore) ListEventsForUser(ctx context.Context, userID string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT e.id
		FROM events e
		LEFT JOIN event_participants p ON p.event_id = e.id
		WHERE e.organizer_id = ? OR p.user_id = ?
		ORDER BY e.start_date DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	events := make([]*models.Event, 0, len(ids))
	for _, id := range ids {
		event, err := s.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// UpdateEvent rewrites the event row and tags. Membership rows are not
// touched here; they move only through the dedicated mutations below.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET title = ?, description = ?, type = ?, start_date = ?, end_date = ?,
		    location = ?, budget = ?, status = ?, join_policy = ?
		WHERE id = ?`,
		event.Title, event.Description, event.Type, event.StartDate, event.EndDate,
		event.Location, event.Budget, event.Status, event.JoinPolicy,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeNotFound, "event not found")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM event_tags WHERE event_id = ?", event.ID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for _, tag := range event.Tags {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO event_tags (event_id, tag) VALUES (?, ?)",
			event.ID, tag,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddParticipant appends a membership record. The (event_id, user_id)
// primary key turns a concurrent duplicate into a conflict instead of a
// second record. Any pending join request for the same user is consumed in
// the same transaction, keeping the pending queue disjoint from the
// participant list.
func (s *SQLiteStore) AddParticipant(ctx context.Context, eventID string, p models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_participants (event_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		eventID, p.User.ID, p.Role, p.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeConflict, "user is already a participant")
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM event_join_requests WHERE event_id = ? AND user_id = ?",
		eventID, p.User.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear join request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveParticipant deletes a membership record. Removing an absent user
// is a no-op.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM event_participants WHERE event_id = ? AND user_id = ?",
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return nil
}

// AddJoinRequest enqueues a pending join request.
func (s *SQLiteStore) AddJoinRequest(ctx context.Context, eventID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_join_requests (event_id, user_id, requested_at) VALUES (?, ?, ?)",
		eventID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert join request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeConflict, "join request already sent")
	}

	return nil
}

// ApproveJoinRequest consumes the pending request and appends the
// membership record in one transaction. The conditional delete is the
// optimistic guard: whichever concurrent approval deletes the row wins,
// the other sees zero rows affected and reports the request as gone.
func (s *SQLiteStore) ApproveJoinRequest(ctx context.Context, eventID string, p models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM event_join_requests WHERE event_id = ? AND user_id = ?",
		eventID, p.User.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to consume join request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeNotFound, "no such join request")
	}

	res, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_participants (event_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		eventID, p.User.ID, p.Role, p.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeConflict, "user is already a participant")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
