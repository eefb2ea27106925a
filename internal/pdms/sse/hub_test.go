package sse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	a := &Client{ID: "a", UserID: "u1", Events: make(chan Event, 1)}
	b := &Client{ID: "b", UserID: "u2", Events: make(chan Event, 1)}
	hub.Register(a)
	hub.Register(b)
	require.Equal(t, 2, hub.ClientCount())

	err := hub.Publish(context.Background(), "activity.info", map[string]string{"message": "LOGISTICS: Batch B-1 moved to Dispatch Area"})
	require.NoError(t, err)

	for _, c := range []*Client{a, b} {
		ev := <-c.Events
		assert.Equal(t, "activity.info", ev.EventType)
		assert.Contains(t, ev.Data, "Dispatch Area")
	}
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{ID: "slow", Events: make(chan Event, 1)}
	hub.Register(c)

	hub.Broadcast(Event{EventType: "x", Data: "1"})
	hub.Broadcast(Event{EventType: "x", Data: "2"})

	assert.Equal(t, "1", (<-c.Events).Data)
	assert.Len(t, c.Events, 0)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{ID: "c", Events: make(chan Event, 1)}
	hub.Register(c)
	hub.Unregister("c")
	hub.Unregister("c")

	_, ok := <-c.Events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
}
