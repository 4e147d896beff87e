package events

import (
	"time"

	"github.com/spec-kit/supportdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated  EventType = "task_created"
	EventTaskUpdated  EventType = "task_updated"
	EventTaskApproved EventType = "task_approved"
	EventTaskRejected EventType = "task_rejected"
	EventTaskDeleted  EventType = "task_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TaskID    int64       `json:"task_id"`
	Category  string      `json:"category"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title  string            `json:"title"`
	Type   domain.TaskType   `json:"type"`
	Status domain.TaskStatus `json:"status"`
}

// TaskUpdatedPayload payload.
type TaskUpdatedPayload struct {
	Title string          `json:"title"`
	Type  domain.TaskType `json:"type"`
}

// TaskStatusPayload describes approval or rejection outcomes.
type TaskStatusPayload struct {
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
	Reason    string            `json:"reason,omitempty"`
}

// TaskDeletedPayload payload.
type TaskDeletedPayload struct {
	Title string `json:"title"`
}
