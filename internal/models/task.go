package models

// TaskStatus is an unconstrained progress marker. Any status may move to
// any other; there is no enforced ordering.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a unit of event work. Created and mutated only by organizers and
// co-organizers; the assignee, when set, must be a current participant.
type Task struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// AssignedTo is the assignee's user ID, empty when unassigned.
	AssignedTo string `json:"assignedTo,omitempty"`

	// Assignee is the populated view of AssignedTo, nil when unassigned.
	Assignee *UserRef `json:"assignee,omitempty"`

	Status TaskStatus `json:"status"`

	// CreatedBy is the user ID of the organizer who created the task.
	CreatedBy string `json:"createdBy"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
