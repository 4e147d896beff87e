package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/supportdesk/internal/domain"
)

// ErrTaskNotFound reports a lookup that matched no task.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter captures listing parameters.
type TaskFilter struct {
	Category string
	Statuses []domain.TaskStatus
	UserID   *int64
	Limit    int
	Offset   int
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
        t.id, t.title, t.description, t.content, t.type, t.category, t.status,
        t.rating, t.keywords, t.user_id, u.email, t.created_at, t.updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, content, type, category, status, rating, keywords, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Content,
		task.Type,
		task.Category,
		task.Status,
		task.Rating,
		task.Keywords,
		task.UserID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, content=$3, type=$4, category=$5,
            status=$6, rating=$7, keywords=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Content,
		task.Type,
		task.Category,
		task.Status,
		task.Rating,
		task.Keywords,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) error {
	const query = `UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tasks t JOIN users u ON u.id = t.user_id
        WHERE t.id=$1`, taskColumns)

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Content,
		&task.Type,
		&task.Category,
		&task.Status,
		&task.Rating,
		&task.Keywords,
		&task.UserID,
		&task.AuthorEmail,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tasks WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, "t.category = "+addArg(filter.Category))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			placeholders = append(placeholders, addArg(status))
		}
		conditions = append(conditions, "t.status IN ("+strings.Join(placeholders, ",")+")")
	}
	if filter.UserID != nil {
		conditions = append(conditions, "t.user_id = "+addArg(*filter.UserID))
	}

	query := fmt.Sprintf("SELECT %s FROM tasks t JOIN users u ON u.id = t.user_id", taskColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + addArg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + addArg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Content,
			&task.Type,
			&task.Category,
			&task.Status,
			&task.Rating,
			&task.Keywords,
			&task.UserID,
			&task.AuthorEmail,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
