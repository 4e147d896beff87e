package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFanout(t *testing.T) {
	d := NewInMemoryDispatcher()
	var first, second []EventType

	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		first = append(first, e.Type)
		return nil
	})
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		second = append(second, e.Type)
		return nil
	})
	d.Subscribe(EventTaskDeleted, func(_ context.Context, e Event) error {
		t.Fatalf("deleted handler invoked for %s", e.Type)
		return nil
	})

	err := d.Publish(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventTaskCreated,
		TaskID:    7,
		Category:  "faq",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventTaskCreated}, first)
	assert.Equal(t, []EventType{EventTaskCreated}, second)
}

// A failing handler must not prevent later handlers from running.
func TestDispatcherHandlerErrorDoesNotStopFanout(t *testing.T) {
	d := NewInMemoryDispatcher()
	reached := false

	d.Subscribe(EventTaskApproved, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventTaskApproved, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTaskApproved})
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskUpdated}))
}
