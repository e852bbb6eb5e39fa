package ws

import "todo_backend/internal/domain"

const (
	// server - client
	MsgReady         = "ready"
	MsgTaskCreated   = domain.TaskEventCreated
	MsgTaskUpdated   = domain.TaskEventUpdated
	MsgTaskCompleted = domain.TaskEventCompleted
	MsgTaskDeleted   = domain.TaskEventDeleted
)

// Message is the frame pushed to feed subscribers.
type Message struct {
	Type string            `json:"type"`
	Task *domain.TaskEvent `json:"task,omitempty"`
}
