package models

import (
	"strings"

	"eventease/internal/domain"
)

// Field limits, matching the stored schema.
const (
	MaxTitleLen            = 100
	MaxEventDescriptionLen = 500
	MaxExpenseDescription  = 300
)

// CreateEventInput is the validated payload for creating an event.
type CreateEventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        EventType  `json:"type"`
	StartDate   int64      `json:"startDate"`
	EndDate     int64      `json:"endDate"`
	Location    string     `json:"location"`
	Budget      float64    `json:"budget"`
	JoinPolicy  JoinPolicy `json:"joinPolicy,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// Validate checks required fields, enum membership and the date range.
func (in *CreateEventInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	switch {
	case in.Title == "":
		return domain.New(domain.CodeValidation, "title is required")
	case len(in.Title) > MaxTitleLen:
		return domain.Newf(domain.CodeValidation, "title must be at most %d characters", MaxTitleLen)
	case len(in.Description) > MaxEventDescriptionLen:
		return domain.Newf(domain.CodeValidation, "description must be at most %d characters", MaxEventDescriptionLen)
	case !ValidEventType(in.Type):
		return domain.Newf(domain.CodeValidation, "invalid event type %q", in.Type)
	case in.StartDate == 0 || in.EndDate == 0:
		return domain.New(domain.CodeValidation, "start and end dates are required")
	case in.StartDate >= in.EndDate:
		return domain.New(domain.CodeValidation, "end date must be after start date")
	case in.Location == "":
		return domain.New(domain.CodeValidation, "location is required")
	case in.Budget < 0:
		return domain.New(domain.CodeValidation, "budget must not be negative")
	}
	if in.JoinPolicy == "" {
		in.JoinPolicy = JoinOpen
	}
	if !ValidJoinPolicy(in.JoinPolicy) {
		return domain.Newf(domain.CodeValidation, "invalid join policy %q", in.JoinPolicy)
	}
	return nil
}

// EventPatch is the explicit allow-list of patchable event fields. Nil
// fields are left untouched; membership, the pending queue and the
// organizer are not reachable through a patch.
type EventPatch struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Type        *EventType   `json:"type,omitempty"`
	StartDate   *int64       `json:"startDate,omitempty"`
	EndDate     *int64       `json:"endDate,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Budget      *float64     `json:"budget,omitempty"`
	Status      *EventStatus `json:"status,omitempty"`
	JoinPolicy  *JoinPolicy  `json:"joinPolicy,omitempty"`
	Tags        *[]string    `json:"tags,omitempty"`
}

// Apply validates the patch against the current aggregate and mutates it.
// The date range is checked on the merged effective dates so the
// start-before-end invariant holds no matter which side the patch touches.
func (p *EventPatch) Apply(e *Event) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return domain.New(domain.CodeValidation, "title must not be empty")
		}
		if len(t) > MaxTitleLen {
			return domain.Newf(domain.CodeValidation, "title must be at most %d characters", MaxTitleLen)
		}
		e.Title = t
	}
	if p.Description != nil {
		if len(*p.Description) > MaxEventDescriptionLen {
			return domain.Newf(domain.CodeValidation, "description must be at most %d characters", MaxEventDescriptionLen)
		}
		e.Description = *p.Description
	}
	if p.Type != nil {
		if !ValidEventType(*p.Type) {
			return domain.Newf(domain.CodeValidation, "invalid event type %q", *p.Type)
		}
		e.Type = *p.Type
	}
	start, end := e.StartDate, e.EndDate
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.EndDate != nil {
		end = *p.EndDate
	}
	if start >= end {
		return domain.New(domain.CodeValidation, "end date must be after start date")
	}
	e.StartDate, e.EndDate = start, end
	if p.Location != nil {
		l := strings.TrimSpace(*p.Location)
		if l == "" {
			return domain.New(domain.CodeValidation, "location must not be empty")
		}
		e.Location = l
	}
	if p.Budget != nil {
		if *p.Budget < 0 {
			return domain.New(domain.CodeValidation, "budget must not be negative")
		}
		e.Budget = *p.Budget
	}
	if p.Status != nil {
		if !ValidEventStatus(*p.Status) {
			return domain.Newf(domain.CodeValidation, "invalid status %q", *p.Status)
		}
		e.Status = *p.Status
	}
	if p.JoinPolicy != nil {
		if !ValidJoinPolicy(*p.JoinPolicy) {
			return domain.Newf(domain.CodeValidation, "invalid join policy %q", *p.JoinPolicy)
		}
		e.JoinPolicy = *p.JoinPolicy
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	return nil
}

// SplitInput is one user's allocation in an expense payload.
type SplitInput struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// ExpenseInput is the validated payload for recording an expense.
type ExpenseInput struct {
	EventID      string          `json:"eventId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       float64         `json:"amount"`
	Category     ExpenseCategory `json:"category"`
	SplitBetween []SplitInput    `json:"splitBetween"`
	Date         int64           `json:"date,omitempty"`
}

// Validate checks required fields and the split-sum invariant.
func (in *ExpenseInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.EventID == "":
		return domain.New(domain.CodeValidation, "event id is required")
	case in.Title == "":
		return domain.New(domain.CodeValidation, "title is required")
	case len(in.Title) > MaxTitleLen:
		return domain.Newf(domain.CodeValidation, "title must be at most %d characters", MaxTitleLen)
	case len(in.Description) > MaxExpenseDescription:
		return domain.Newf(domain.CodeValidation, "description must be at most %d characters", MaxExpenseDescription)
	case in.Amount <= 0:
		return domain.New(domain.CodeValidation, "amount must be greater than zero")
	case !ValidExpenseCategory(in.Category):
		return domain.Newf(domain.CodeValidation, "invalid category %q", in.Category)
	case len(in.SplitBetween) == 0:
		return domain.New(domain.CodeValidation, "split between must not be empty")
	}
	var sum float64
	seen := make(map[string]bool, len(in.SplitBetween))
	for _, s := range in.SplitBetween {
		if s.UserID == "" {
			return domain.New(domain.CodeValidation, "split entry is missing a user")
		}
		if seen[s.UserID] {
			return domain.New(domain.CodeValidation, "split lists the same user more than once")
		}
		seen[s.UserID] = true
		if s.Amount < 0 {
			return domain.New(domain.CodeValidation, "split amounts must not be negative")
		}
		sum += s.Amount
	}
	if sum-in.Amount > SplitEpsilon || in.Amount-sum > SplitEpsilon {
		return domain.New(domain.CodeConflict, "split amounts must equal total amount")
	}
	return nil
}

// TaskInput is the validated payload for creating a task.
type TaskInput struct {
	EventID     string     `json:"eventId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

// Validate checks required fields; status defaults to pending.
func (in *TaskInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.EventID == "":
		return domain.New(domain.CodeValidation, "event id is required")
	case in.Title == "":
		return domain.New(domain.CodeValidation, "title is required")
	case len(in.Title) > MaxTitleLen:
		return domain.Newf(domain.CodeValidation, "title must be at most %d characters", MaxTitleLen)
	}
	if in.Status == "" {
		in.Status = TaskPending
	}
	if !ValidTaskStatus(in.Status) {
		return domain.Newf(domain.CodeValidation, "invalid status %q", in.Status)
	}
	return nil
}

// TaskPatch updates task fields; nil fields are left untouched. Assignment
// changes are revalidated against the current participant set by the
// service.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	AssignedTo  *string     `json:"assignedTo,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// Apply validates the patch and mutates the task.
func (p *TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return domain.New(domain.CodeValidation, "title must not be empty")
		}
		if len(title) > MaxTitleLen {
			return domain.Newf(domain.CodeValidation, "title must be at most %d characters", MaxTitleLen)
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Status != nil {
		if !ValidTaskStatus(*p.Status) {
			return domain.Newf(domain.CodeValidation, "invalid status %q", *p.Status)
		}
		t.Status = *p.Status
	}
	return nil
}
