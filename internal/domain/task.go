package domain

import "time"

// TaskType distinguishes knowledge-base entries from incident reports.
type TaskType string

const (
	TaskTypeQA    TaskType = "Q&A"
	TaskTypeIssue TaskType = "Issue"
)

// Valid reports whether the task type is recognized.
func (t TaskType) Valid() bool {
	return t == TaskTypeQA || t == TaskTypeIssue
}

// TaskStatus tracks the moderation lifecycle of a task.
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusApproved TaskStatus = "approved"
	TaskStatusRejected TaskStatus = "rejected"
)

// Valid reports whether the status is recognized.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusApproved, TaskStatusRejected:
		return true
	}
	return false
}

// Task is a categorized support entry: a Q&A article or a reported issue.
// AuthorEmail is denormalized from the owning user on reads.
type Task struct {
	ID          int64
	Title       string
	Description string
	Content     string
	Type        TaskType
	Category    string
	Status      TaskStatus
	Rating      float64
	Keywords    []string
	UserID      int64
	AuthorEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
