package service

import (
	"context"
	"log/slog"

	"eventease/internal/domain"
	"eventease/internal/models"
	"eventease/internal/storage"
)

// TaskService manages the task board. Creation and mutation are gated on
// organizer or co-organizer role; assignment is validated against the
// current participant set both at create and at update time.
type TaskService struct {
	store storage.Store
}

// NewTaskService creates a TaskService with the given storage backend.
func NewTaskService(store storage.Store) *TaskService {
	return &TaskService{store: store}
}

// Create validates the input and persists a new task.
func (s *TaskService) Create(ctx context.Context, actorID string, in *models.TaskInput) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizers can manage tasks")
	}
	if err := checkAssignee(event, in.AssignedTo); err != nil {
		return nil, err
	}

	task := &models.Task{
		EventID:     in.EventID,
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		Status:      in.Status,
		CreatedBy:   actorID,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		slog.Error("Create task failed", "event_id", in.EventID, "actor", actorID, "error", err)
		return nil, domain.Wrap(domain.CodeStore, "failed to create task", err)
	}

	slog.Info("Task created", "task_id", task.ID, "event_id", in.EventID, "actor", actorID)
	return s.store.GetTask(ctx, task.ID)
}

// ListForEvent returns the event's tasks. Any participant may view.
func (s *TaskService) ListForEvent(ctx context.Context, actorID, eventID string) ([]*models.Task, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasAccess(actorID) {
		return nil, domain.New(domain.CodeNotAuthorized, "access denied")
	}

	tasks, err := s.store.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to list tasks", err)
	}
	return tasks, nil
}

// Update applies a patch to the task. Requires organizer or co-organizer
// on the owning event; a changed assignee must be a current participant.
func (s *TaskService) Update(ctx context.Context, actorID, taskID string, patch *models.TaskPatch) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, task.EventID)
	if err != nil {
		return nil, err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizers can manage tasks")
	}

	if err := patch.Apply(task); err != nil {
		return nil, err
	}
	if err := checkAssignee(event, task.AssignedTo); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	slog.Info("Task updated", "task_id", taskID, "actor", actorID)
	return s.store.GetTask(ctx, taskID)
}

// Delete removes a task. Requires organizer or co-organizer on the owning
// event.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID string) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	event, err := s.store.GetEvent(ctx, task.EventID)
	if err != nil {
		return err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return domain.New(domain.CodeNotAuthorized, "only organizers can manage tasks")
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	slog.Info("Task deleted", "task_id", taskID, "actor", actorID)
	return nil
}

// checkAssignee verifies the assignee, when set, is a current participant.
func checkAssignee(event *models.Event, assignedTo string) error {
	if assignedTo == "" {
		return nil
	}
	if _, ok := event.RoleOf(assignedTo); !ok {
		return domain.New(domain.CodeValidation, "assigned user is not a participant of the event")
	}
	return nil
}
