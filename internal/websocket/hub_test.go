package websocket

import (
	"context"
	"testing"
	"time"

	"ai-agent-platform/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	a := &Client{Hub: hub, ID: "a", Send: make(chan []byte, 1)}
	b := &Client{Hub: hub, ID: "b", Send: make(chan []byte, 1)}
	require.True(t, hub.add(a))
	require.True(t, hub.add(b))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, time.Millisecond)

	hub.Broadcast([]byte(`{"type":"PROFILE_SESSION_STARTED"}`))
	assert.Equal(t, `{"type":"PROFILE_SESSION_STARTED"}`, string(<-a.Send))
	assert.Equal(t, `{"type":"PROFILE_SESSION_STARTED"}`, string(<-b.Send))

	// a full buffer drops the message instead of blocking the broadcaster
	hub.Broadcast([]byte("one"))
	hub.Broadcast([]byte("two"))
	assert.Equal(t, "one", string(<-a.Send))
	assert.Empty(t, a.Send)

	hub.remove(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)

	cancel()
	_, open = <-b.Send
	for open {
		_, open = <-b.Send
	}
	assert.False(t, hub.add(&Client{Hub: hub, Send: make(chan []byte)}))
}
