package dto

import (
	"time"

	"github.com/spec-kit/supportdesk/internal/domain"
)

// TaskRequest payload for creating or updating a task.
type TaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Type        string   `json:"type"`
	Keywords    []string `json:"keywords"`
}

// RejectTaskRequest carries the moderation reason.
type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

// TaskResponse is the public shape of a task.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Type        domain.TaskType   `json:"type"`
	Category    string            `json:"category"`
	Status      domain.TaskStatus `json:"status"`
	Rating      float64           `json:"rating"`
	Keywords    []string          `json:"keywords"`
	UserID      int64             `json:"user_id"`
	AuthorEmail string            `json:"author_email"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Content:     task.Content,
		Type:        task.Type,
		Category:    task.Category,
		Status:      task.Status,
		Rating:      task.Rating,
		Keywords:    task.Keywords,
		UserID:      task.UserID,
		AuthorEmail: task.AuthorEmail,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of domain tasks.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, NewTaskResponse(&tasks[i]))
	}
	return items
}
