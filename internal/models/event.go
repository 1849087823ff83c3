package models

// Role is a participant's privilege level within an event.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleCoOrganizer Role = "co-organizer"
	RoleParticipant Role = "participant"
)

// AssignableRoles are the roles an organizer or co-organizer may grant when
// adding a participant. RoleOrganizer is deliberately absent: the organizer
// is fixed at creation and the aggregate holds exactly one.
var AssignableRoles = []Role{RoleParticipant, RoleCoOrganizer}

// EventType categorizes an event.
type EventType string

const (
	EventTrip    EventType = "trip"
	EventParty   EventType = "party"
	EventDinner  EventType = "dinner"
	EventMeeting EventType = "meeting"
	EventOther   EventType = "other"
)

// EventStatus tracks the event lifecycle.
type EventStatus string

const (
	StatusPlanning  EventStatus = "planning"
	StatusActive    EventStatus = "active"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

// JoinPolicy controls how a user becomes a participant. Both join
// operations route through the same membership transition keyed on this
// policy.
type JoinPolicy string

const (
	// JoinOpen admits any authenticated user immediately.
	JoinOpen JoinPolicy = "open"
	// JoinApprovalRequired queues join requests for organizer approval.
	JoinApprovalRequired JoinPolicy = "approval-required"
)

// Participant is a membership record embedded in an Event.
type Participant struct {
	// User is the populated member reference.
	User UserRef `json:"user"`

	// Role is the member's privilege level within the event.
	Role Role `json:"role"`

	// JoinedAt is the Unix timestamp when the membership was created.
	JoinedAt int64 `json:"joinedAt"`
}

// Event is the aggregate root. It owns the participant list and the pending
// join request queue; membership invariants are enforced against the whole
// loaded aggregate.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        EventType `json:"type"`
	StartDate   int64     `json:"startDate"`
	EndDate     int64     `json:"endDate"`
	Location    string    `json:"location"`
	Budget      float64   `json:"budget"`

	// OrganizerID is the creator's user ID. Immutable after creation and
	// never removable from the participant list.
	OrganizerID string `json:"organizerId"`

	// Organizer is the populated creator reference.
	Organizer UserRef `json:"organizer"`

	// Participants is the ordered membership list, unique by user. Exactly
	// one record has RoleOrganizer and its user equals OrganizerID.
	Participants []Participant `json:"participants"`

	// PendingJoinRequests holds user IDs awaiting organizer approval,
	// disjoint from Participants.
	PendingJoinRequests []string `json:"pendingJoinRequests"`

	Status     EventStatus `json:"status"`
	JoinPolicy JoinPolicy  `json:"joinPolicy"`
	Tags       []string    `json:"tags"`
	CreatedAt  int64       `json:"createdAt"`
}

// RoleOf returns the role of userID and whether they are a participant.
func (e *Event) RoleOf(userID string) (Role, bool) {
	for _, p := range e.Participants {
		if p.User.ID == userID {
			return p.Role, true
		}
	}
	return "", false
}

// HasPrivilege reports whether userID holds any of the required roles.
// This is the authorization guard consulted before every privileged
// mutation.
func (e *Event) HasPrivilege(userID string, required ...Role) bool {
	role, ok := e.RoleOf(userID)
	if !ok {
		return false
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// HasAccess reports whether userID may read the event: the organizer or
// any participant regardless of role.
func (e *Event) HasAccess(userID string) bool {
	if e.OrganizerID == userID {
		return true
	}
	_, ok := e.RoleOf(userID)
	return ok
}

// HasPendingRequest reports whether userID is awaiting approval.
func (e *Event) HasPendingRequest(userID string) bool {
	for _, id := range e.PendingJoinRequests {
		if id == userID {
			return true
		}
	}
	return false
}

// ValidEventType reports whether t is a known event type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTrip, EventParty, EventDinner, EventMeeting, EventOther:
		return true
	}
	return false
}

// ValidEventStatus reports whether s is a known lifecycle status.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidJoinPolicy reports whether p is a known join policy.
func ValidJoinPolicy(p JoinPolicy) bool {
	return p == JoinOpen || p == JoinApprovalRequired
}
