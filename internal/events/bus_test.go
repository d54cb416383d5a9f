package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToMatchingTopics(t *testing.T) {
	bus := NewBus()
	all := bus.Subscribe()
	tasks := bus.Subscribe(TasksUpdated)

	bus.Publish(NotificationsUpdated)

	select {
	case e := <-all:
		assert.Equal(t, NotificationsUpdated, e.Topic)
		assert.False(t, e.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event on wildcard subscription")
	}

	select {
	case e := <-tasks:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(FilesUpdated)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, cap(ch))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)
	assert.Equal(t, 0, bus.Subscribers())

	_, open := <-ch
	assert.False(t, open)
}
