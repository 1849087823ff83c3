// Package service implements the application operations over the storage
// layer: the event membership state machine, the expense ledger with its
// balance reports, the task board and account registration.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"eventease/internal/domain"
	"eventease/internal/models"
	"eventease/internal/storage"
)

// EventService orchestrates event lifecycle and membership transitions.
//
// Membership forms a state machine per (event, user): non-member ->
// pending-request -> participant -> non-member on removal, except the
// organizer who is terminal. Every transition loads the whole aggregate,
// decides against it, then commits through a store mutation that re-asserts
// its precondition, so concurrent organizer actions cannot duplicate a
// membership or approve a request twice.
type EventService struct {
	store storage.Store
}

// NewEventService creates an EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// JoinStatus reports the outcome of a join attempt.
type JoinStatus string

const (
	// JoinedDirectly means the caller is now a participant.
	JoinedDirectly JoinStatus = "joined"
	// JoinPending means the request awaits organizer approval.
	JoinPending JoinStatus = "pending"
)

// JoinResult is the outcome of Join or RequestJoin.
type JoinResult struct {
	Status JoinStatus    `json:"status"`
	Event  *models.Event `json:"event"`
}

// Create validates the input and persists a new event. The creator becomes
// the organizer and the first participant with role organizer.
func (s *EventService) Create(ctx context.Context, actorID string, in *models.CreateEventInput) (*models.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Location:    in.Location,
		Budget:      in.Budget,
		OrganizerID: actorID,
		Status:      models.StatusPlanning,
		JoinPolicy:  in.JoinPolicy,
		Tags:        in.Tags,
		Participants: []models.Participant{
			{User: models.UserRef{ID: actorID}, Role: models.RoleOrganizer, JoinedAt: now},
		},
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("Create event failed", "actor", actorID, "error", err)
		return nil, domain.Wrap(domain.CodeStore, "failed to create event", err)
	}

	slog.Info("Event created", "event_id", event.ID, "title", event.Title, "organizer", actorID)
	return s.store.GetEvent(ctx, event.ID)
}

// Get returns the event if the caller is the organizer or a participant.
func (s *EventService) Get(ctx context.Context, actorID, eventID string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasAccess(actorID) {
		return nil, domain.New(domain.CodeNotAuthorized, "access denied")
	}
	return event, nil
}

// ListForUser returns all events where the caller is organizer or
// participant, newest start date first.
func (s *EventService) ListForUser(ctx context.Context, actorID string) ([]*models.Event, error) {
	events, err := s.store.ListEventsForUser(ctx, actorID)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to list events", err)
	}
	return events, nil
}

// Update applies a typed patch to the event. Requires the caller to be
// organizer or co-organizer. Only the allow-listed fields can change;
// membership, the pending queue and the organizer are unreachable.
func (s *EventService) Update(ctx context.Context, actorID, eventID string, patch *models.EventPatch) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizers can update events")
	}

	if err := patch.Apply(event); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}

	slog.Info("Event updated", "event_id", eventID, "actor", actorID)
	return s.store.GetEvent(ctx, eventID)
}

// Join is the self-service membership entry point. The transition is keyed
// on the event's join policy: an open event admits the caller immediately,
// an approval-required event queues a pending request.
func (s *EventService) Join(ctx context.Context, actorID, eventID string) (*JoinResult, error) {
	return s.admit(ctx, actorID, eventID)
}

// RequestJoin routes through the same policy-keyed transition as Join. On
// an open event the caller is admitted directly; only approval-required
// events queue a request.
func (s *EventService) RequestJoin(ctx context.Context, actorID, eventID string) (*JoinResult, error) {
	return s.admit(ctx, actorID, eventID)
}

// admit runs the single membership admission transition.
func (s *EventService) admit(ctx context.Context, actorID, eventID string) (*JoinResult, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID == actorID {
		return nil, domain.New(domain.CodeConflict, "organizer is already part of event")
	}
	if _, ok := event.RoleOf(actorID); ok {
		return nil, domain.New(domain.CodeConflict, "you already joined this event")
	}

	if event.JoinPolicy == models.JoinApprovalRequired {
		if event.HasPendingRequest(actorID) {
			return nil, domain.New(domain.CodeConflict, "join request already sent")
		}
		if err := s.store.AddJoinRequest(ctx, eventID, actorID); err != nil {
			return nil, err
		}
		slog.Info("Join request queued", "event_id", eventID, "user_id", actorID)
		updated, err := s.store.GetEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return &JoinResult{Status: JoinPending, Event: updated}, nil
	}

	p := models.Participant{
		User:     models.UserRef{ID: actorID},
		Role:     models.RoleParticipant,
		JoinedAt: time.Now().Unix(),
	}
	if err := s.store.AddParticipant(ctx, eventID, p); err != nil {
		return nil, err
	}

	slog.Info("User joined event", "event_id", eventID, "user_id", actorID)
	updated, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Status: JoinedDirectly, Event: updated}, nil
}

// Approve consumes a pending join request and admits the target user as a
// participant. Only the organizer may approve; co-organizers may not.
func (s *EventService) Approve(ctx context.Context, actorID, eventID, targetUserID string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actorID {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizer can approve participants")
	}

	p := models.Participant{
		User:     models.UserRef{ID: targetUserID},
		Role:     models.RoleParticipant,
		JoinedAt: time.Now().Unix(),
	}
	if err := s.store.ApproveJoinRequest(ctx, eventID, p); err != nil {
		return nil, err
	}

	slog.Info("Join request approved", "event_id", eventID, "user_id", targetUserID, "approver", actorID)
	return s.store.GetEvent(ctx, eventID)
}

// AddParticipantByEmail resolves an email to a user and appends a
// membership record with the requested role. Requires organizer or
// co-organizer. Role organizer is never assignable: all role grants pass
// through this one transition, which preserves the single-organizer
// invariant by construction.
func (s *EventService) AddParticipantByEmail(ctx context.Context, actorID, eventID, email string, role models.Role) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizers can add participants")
	}

	if role == "" {
		role = models.RoleParticipant
	}
	if !assignable(role) {
		return nil, domain.Newf(domain.CodeValidation, "role %q cannot be assigned", role)
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to resolve user", err)
	}
	if user == nil {
		return nil, domain.New(domain.CodeNotFound, "user not found")
	}

	if _, ok := event.RoleOf(user.ID); ok {
		return nil, domain.New(domain.CodeConflict, "user is already a participant")
	}

	p := models.Participant{User: user.Ref(), Role: role, JoinedAt: time.Now().Unix()}
	if err := s.store.AddParticipant(ctx, eventID, p); err != nil {
		return nil, err
	}

	slog.Info("Participant added", "event_id", eventID, "user_id", user.ID, "role", role, "actor", actorID)
	return s.store.GetEvent(ctx, eventID)
}

// RemoveParticipant deletes a membership record. Requires organizer or
// co-organizer. The organizer can never be removed, by anyone. Removing a
// user who is not a member is a no-op.
func (s *EventService) RemoveParticipant(ctx context.Context, actorID, eventID, targetUserID string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasPrivilege(actorID, models.RoleOrganizer, models.RoleCoOrganizer) {
		return nil, domain.New(domain.CodeNotAuthorized, "only organizers can remove participants")
	}
	if targetUserID == event.OrganizerID {
		return nil, domain.New(domain.CodeConflict, "organizer cannot be removed")
	}

	if err := s.store.RemoveParticipant(ctx, eventID, targetUserID); err != nil {
		return nil, err
	}

	slog.Info("Participant removed", "event_id", eventID, "user_id", targetUserID, "actor", actorID)
	return s.store.GetEvent(ctx, eventID)
}

func assignable(role models.Role) bool {
	for _, r := range models.AssignableRoles {
		if role == r {
			return true
		}
	}
	return false
}
