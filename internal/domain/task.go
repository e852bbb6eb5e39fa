package domain

import "time"

// Task is a single todo item owned by one tenant.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StatusFilter selects tasks by completion state when listing.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// Matches reports whether t passes the filter.
func (f StatusFilter) Matches(t *Task) bool {
	switch f {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

// TaskPatch carries the fields an update is allowed to change.
// Nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
}

// Task event types
const (
	TaskEventCreated   = "task_created"
	TaskEventUpdated   = "task_updated"
	TaskEventCompleted = "task_completed"
	TaskEventDeleted   = "task_deleted"
)

// TaskEvent describes a committed change to a tenant's task.
type TaskEvent struct {
	Type     string    `json:"type"`
	TenantID string    `json:"-"`
	TaskID   int64     `json:"task_id"`
	Title    string    `json:"title"`
	At       time.Time `json:"at"`
}
