package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/supportdesk/internal/auth"
	"github.com/spec-kit/supportdesk/internal/cache"
	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/events"
	"github.com/spec-kit/supportdesk/internal/repository"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

// TaskInput describes the create/update payload for a task.
type TaskInput struct {
	Title       string
	Description string
	Content     string
	Type        domain.TaskType
	Keywords    []string
}

// TaskService coordinates task workflows: submission, moderation and
// role-dependent visibility.
type TaskService struct {
	tasks      repository.TaskRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	cache      *cache.TaskCache
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo     repository.TaskRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Cache        *cache.TaskCache
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
	}
}

// Create submits a task into a category. Admin submissions are approved
// immediately; everyone else's wait in the moderation queue.
func (s *TaskService) Create(ctx context.Context, identity auth.Identity, category string, input TaskInput) (*domain.Task, error) {
	if err := s.requireCategory(ctx, category); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("invalid task type", map[string]any{"type": input.Type})
	}

	status := domain.TaskStatusPending
	if identity.Role == domain.RoleAdmin {
		status = domain.TaskStatusApproved
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Type:        input.Type,
		Category:    category,
		Status:      status,
		Keywords:    input.Keywords,
		UserID:      identity.UserID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskCreated, task, identity, events.TaskCreatedPayload{
		Title:  task.Title,
		Type:   task.Type,
		Status: task.Status,
	})
	return s.tasks.GetByID(ctx, task.ID)
}

// Get returns one task from a category. Non-admins only see approved tasks.
func (s *TaskService) Get(ctx context.Context, identity auth.Identity, category string, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Category != category {
		return nil, repository.ErrTaskNotFound
	}
	if identity.Role != domain.RoleAdmin && task.Status != domain.TaskStatusApproved {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

// List returns the tasks of a category visible to the caller. Listings are
// served from the cache when warm.
func (s *TaskService) List(ctx context.Context, identity auth.Identity, category string) ([]domain.Task, error) {
	if err := s.requireCategory(ctx, category); err != nil {
		return nil, err
	}

	adminView := identity.Role == domain.RoleAdmin
	if tasks, ok := s.cache.Get(ctx, category, adminView); ok {
		return tasks, nil
	}

	filter := repository.TaskFilter{Category: category}
	if !adminView {
		filter.Statuses = []domain.TaskStatus{domain.TaskStatusApproved}
	}
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, category, adminView, tasks)
	return tasks, nil
}

// ListPending returns the moderation queue across all categories.
func (s *TaskService) ListPending(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx, repository.TaskFilter{
		Statuses: []domain.TaskStatus{domain.TaskStatusPending},
	})
}

// Update rewrites a task's content in place.
func (s *TaskService) Update(ctx context.Context, identity auth.Identity, category string, id int64, input TaskInput) (*domain.Task, error) {
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("invalid task type", map[string]any{"type": input.Type})
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Category != category {
		return nil, repository.ErrTaskNotFound
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Content = input.Content
	task.Type = input.Type
	task.Keywords = input.Keywords
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskUpdated, task, identity, events.TaskUpdatedPayload{
		Title: task.Title,
		Type:  task.Type,
	})
	return s.tasks.GetByID(ctx, task.ID)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, identity auth.Identity, category string, id int64) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.Category != category {
		return repository.ErrTaskNotFound
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventTaskDeleted, task, identity, events.TaskDeletedPayload{Title: task.Title})
	return nil
}

// Approve moves a pending task into the approved set.
func (s *TaskService) Approve(ctx context.Context, identity auth.Identity, category string, id int64) (*domain.Task, error) {
	return s.moderate(ctx, identity, category, id, domain.TaskStatusApproved, "")
}

// Reject declines a pending task; the reason travels on the emitted event.
func (s *TaskService) Reject(ctx context.Context, identity auth.Identity, category string, id int64, reason string) (*domain.Task, error) {
	return s.moderate(ctx, identity, category, id, domain.TaskStatusRejected, reason)
}

func (s *TaskService) moderate(ctx context.Context, identity auth.Identity, category string, id int64, target domain.TaskStatus, reason string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Category != category {
		return nil, repository.ErrTaskNotFound
	}
	if task.Status != domain.TaskStatusPending {
		return nil, apperrors.NewConflict("task is not pending", map[string]any{"status": task.Status})
	}

	if err := s.tasks.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	eventType := events.EventTaskApproved
	if target == domain.TaskStatusRejected {
		eventType = events.EventTaskRejected
	}
	s.publish(ctx, eventType, task, identity, events.TaskStatusPayload{
		OldStatus: task.Status,
		NewStatus: target,
		Reason:    reason,
	})
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) requireCategory(ctx context.Context, category string) error {
	exists, err := s.categories.Exists(ctx, category)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("category", map[string]any{"category": category})
	}
	return nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task *domain.Task, identity auth.Identity, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    task.ID,
		Category:  task.Category,
		Actor:     events.Actor{UserID: identity.UserID, Role: identity.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
