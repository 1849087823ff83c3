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

const taskColumns = `
	t.id, t.event_id, t.title, t.description, t.assigned_to, t.status,
	t.created_by, t.created_at, t.updated_at, u.username, u.email`

// CreateTask persists a new task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if task.CreatedAt == 0 {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, event_id, title, description, assigned_to, status, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.EventID, task.Title, task.Description,
		nullable(task.AssignedTo), task.Status, task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID with its assignee populated.
func (s *SQLiteStore) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+taskColumns+`
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.id = ?`,
		taskID,
	)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, domain.New(domain.CodeNotFound, "task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasksByEvent returns an event's tasks, newest first.
func (s *SQLiteStore) ListTasksByEvent(ctx context.Context, eventID string) ([]*models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+taskColumns+`
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.event_id = ?
		ORDER BY t.created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask rewrites a task row.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, assigned_to = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, nullable(task.AssignedTo), task.Status, task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeNotFound, "task not found")
	}

	return nil
}

// DeleteTask removes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.New(domain.CodeNotFound, "task not found")
	}

	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var assignedTo, username, email sql.NullString
	if err := row.Scan(
		&task.ID, &task.EventID, &task.Title, &task.Description, &assignedTo, &task.Status,
		&task.CreatedBy, &task.CreatedAt, &task.UpdatedAt, &username, &email,
	); err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		task.AssignedTo = assignedTo.String
		task.Assignee = &models.UserRef{
			ID:       assignedTo.String,
			Username: username.String,
			Email:    email.String,
		}
	}
	return task, nil
}

// nullable maps an empty string to NULL so the assigned_to foreign key is
// not violated by unassigned tasks.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
