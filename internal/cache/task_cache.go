package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/events"
	"github.com/spec-kit/supportdesk/internal/persistence"
)

// TaskCache caches per-category task listings in Redis. Admin and regular
// views are cached under distinct keys since they see different status sets.
// Any task lifecycle event invalidates the affected category. A cold or
// unreachable Redis degrades to straight database reads.
type TaskCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewTaskCache constructs the cache.
func NewTaskCache(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) *TaskCache {
	return &TaskCache{redis: r, ttl: ttl, logger: logger}
}

// Get returns the cached listing, or ok=false on miss or error.
func (c *TaskCache) Get(ctx context.Context, category string, adminView bool) ([]domain.Task, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, listKey(category, adminView)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("task cache read failed", zap.String("category", category), zap.Error(err))
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		c.logger.Warn("task cache payload corrupt", zap.String("category", category), zap.Error(err))
		return nil, false
	}
	return tasks, true
}

// Set stores a listing with the configured TTL.
func (c *TaskCache) Set(ctx context.Context, category string, adminView bool, tasks []domain.Task) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		c.logger.Warn("task cache encode failed", zap.String("category", category), zap.Error(err))
		return
	}
	if err := c.redis.Client.Set(ctx, listKey(category, adminView), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("task cache write failed", zap.String("category", category), zap.Error(err))
	}
}

// InvalidateCategory drops both views of a category.
func (c *TaskCache) InvalidateCategory(ctx context.Context, category string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	keys := []string{listKey(category, true), listKey(category, false)}
	if err := c.redis.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("task cache invalidation failed", zap.String("category", category), zap.Error(err))
	}
}

// RegisterHandlers subscribes invalidation to task lifecycle events.
func (c *TaskCache) RegisterHandlers(dispatcher events.Dispatcher) {
	if c == nil || dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		c.InvalidateCategory(ctx, event.Category)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTaskCreated,
		events.EventTaskUpdated,
		events.EventTaskApproved,
		events.EventTaskRejected,
		events.EventTaskDeleted,
	} {
		dispatcher.Subscribe(eventType, invalidate)
	}
}

func listKey(category string, adminView bool) string {
	view := "user"
	if adminView {
		view = "admin"
	}
	return fmt.Sprintf("supportdesk:tasks:%s:%s", category, view)
}
