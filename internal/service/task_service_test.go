package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/supportdesk/internal/auth"
	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/events"
	"github.com/spec-kit/supportdesk/internal/repository"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

type memTaskRepo struct {
	nextID int64
	byID   map[int64]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{byID: map[int64]*domain.Task{}}
}

func (m *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	m.nextID++
	task.ID = m.nextID
	cp := *task
	m.byID[task.ID] = &cp
	return nil
}

func (m *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := m.byID[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	cp := *task
	m.byID[task.ID] = &cp
	return nil
}

func (m *memTaskRepo) UpdateStatus(_ context.Context, id int64, status domain.TaskStatus) error {
	task, ok := m.byID[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (m *memTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	task, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (m *memTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range m.byID {
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, s := range filter.Statuses {
				if task.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *task)
	}
	return out, nil
}

type memCategoryRepo struct {
	ids map[string]bool
}

func newMemCategoryRepo(ids ...string) *memCategoryRepo {
	m := &memCategoryRepo{ids: map[string]bool{}}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func (m *memCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	m.ids[category.ID] = true
	return nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id string) error {
	if !m.ids[id] {
		return repository.ErrCategoryNotFound
	}
	delete(m.ids, id)
	return nil
}

func (m *memCategoryRepo) Exists(_ context.Context, id string) (bool, error) {
	return m.ids[id], nil
}

func (m *memCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, domain.Category{ID: id})
	}
	return out, nil
}

// eventRecorder captures everything published during a test.
type eventRecorder struct {
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

var (
	adminIdentity = auth.Identity{UserID: 1, Role: domain.RoleAdmin}
	userIdentity  = auth.Identity{UserID: 2, Role: domain.RoleUser}
)

func newTestTaskService(t *testing.T) (*TaskService, *memTaskRepo, *eventRecorder) {
	t.Helper()
	tasks := newMemTaskRepo()
	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventTaskCreated, events.EventTaskUpdated,
		events.EventTaskApproved, events.EventTaskRejected,
		events.EventTaskDeleted,
	} {
		dispatcher.Subscribe(et, recorder.record)
	}
	svc := NewTaskService(TaskDependencies{
		TaskRepo:     tasks,
		CategoryRepo: newMemCategoryRepo("network", "hardware"),
		Dispatcher:   dispatcher,
		Cache:        nil, // a nil cache is a supported no-op
	})
	return svc, tasks, recorder
}

func sampleInput() TaskInput {
	return TaskInput{
		Title:       "VPN drops every hour",
		Description: "Connection resets on the corporate VPN",
		Content:     "Started after the client update last week.",
		Type:        domain.TaskTypeIssue,
		Keywords:    []string{"vpn", "network"},
	}
}

func TestCreateStatusByRole(t *testing.T) {
	svc, _, recorder := newTestTaskService(t)
	ctx := context.Background()

	fromAdmin, err := svc.Create(ctx, adminIdentity, "network", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusApproved, fromAdmin.Status)

	fromUser, err := svc.Create(ctx, userIdentity, "network", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, fromUser.Status)
	assert.Equal(t, userIdentity.UserID, fromUser.UserID)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, events.EventTaskCreated, recorder.events[0].Type)
	assert.Equal(t, adminIdentity.UserID, recorder.events[0].Actor.UserID)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userIdentity, "no-such-category", sampleInput())
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 404, de.HTTPStatus)

	bad := sampleInput()
	bad.Type = domain.TaskType("Rant")
	_, err = svc.Create(ctx, userIdentity, "network", bad)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestListVisibilityByRole(t *testing.T) {
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminIdentity, "network", sampleInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, userIdentity, "network", sampleInput())
	require.NoError(t, err)

	adminView, err := svc.List(ctx, adminIdentity, "network")
	require.NoError(t, err)
	assert.Len(t, adminView, 2)

	userView, err := svc.List(ctx, userIdentity, "network")
	require.NoError(t, err)
	require.Len(t, userView, 1)
	assert.Equal(t, domain.TaskStatusApproved, userView[0].Status)
}

func TestGetHidesPendingFromUsers(t *testing.T) {
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	pending, err := svc.Create(ctx, userIdentity, "network", sampleInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, userIdentity, "network", pending.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	got, err := svc.Get(ctx, adminIdentity, "network", pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	// Category mismatch reads as absence even for admins.
	_, err = svc.Get(ctx, adminIdentity, "hardware", pending.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestApproveAndReject(t *testing.T) {
	svc, _, recorder := newTestTaskService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, userIdentity, "network", sampleInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, userIdentity, "network", sampleInput())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, adminIdentity, "network", first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusApproved, approved.Status)

	rejected, err := svc.Reject(ctx, adminIdentity, "network", second.ID, "duplicate of an open issue")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusRejected, rejected.Status)

	last := recorder.events[len(recorder.events)-1]
	assert.Equal(t, events.EventTaskRejected, last.Type)
	payload, ok := last.Payload.(events.TaskStatusPayload)
	require.True(t, ok)
	assert.Equal(t, "duplicate of an open issue", payload.Reason)

	// Moderation only applies to pending tasks.
	_, err = svc.Approve(ctx, adminIdentity, "network", first.ID)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 409, de.HTTPStatus)
}

func TestListPending(t *testing.T) {
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminIdentity, "network", sampleInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, userIdentity, "hardware", sampleInput())
	require.NoError(t, err)

	queue, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.TaskStatusPending, queue[0].Status)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, tasks, recorder := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, adminIdentity, "network", sampleInput())
	require.NoError(t, err)

	edit := sampleInput()
	edit.Title = "VPN drops every hour on wifi"
	updated, err := svc.Update(ctx, adminIdentity, "network", task.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, edit.Title, updated.Title)

	require.NoError(t, svc.Delete(ctx, adminIdentity, "network", task.ID))
	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	last := recorder.events[len(recorder.events)-1]
	assert.Equal(t, events.EventTaskDeleted, last.Type)
}
