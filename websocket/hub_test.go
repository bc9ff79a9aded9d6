package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToUserDeliversEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{UserID: 7, Send: make(chan []byte, 4)}
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.SendToUser(7, "new_message", map[string]string{"message": "hello"})
	}, time.Second, 10*time.Millisecond)

	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "new_message", event.Type)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestSendToUserOffline(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.False(t, hub.SendToUser(42, "new_message", nil))
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{UserID: 9, Send: make(chan []byte, 4)}
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.SendToUser(9, "ping", nil)
	}, time.Second, 10*time.Millisecond)

	hub.unregister <- client
	require.Eventually(t, func() bool {
		return !hub.SendToUser(9, "ping", nil)
	}, time.Second, 10*time.Millisecond)

	// The send channel is closed on unregister
	_, open := <-client.Send
	for open {
		_, open = <-client.Send
	}
}

// A user reconnecting closes the old Send channel; deliveries racing the
// reconnect must drop the event, never panic.
func TestSendToUserDuringReconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.SendToUser(1, "new_message", map[string]string{"message": "hi"})
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		hub.register <- &Client{UserID: 1, Send: make(chan []byte, 1)}
	}

	close(stop)
	wg.Wait()
}

func TestSecondConnectionReplacesFirst(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &Client{UserID: 5, Send: make(chan []byte, 4)}
	second := &Client{UserID: 5, Send: make(chan []byte, 4)}

	hub.register <- first
	hub.register <- second

	require.Eventually(t, func() bool {
		return hub.SendToUser(5, "ping", nil)
	}, time.Second, 10*time.Millisecond)

	select {
	case payload, open := <-second.Send:
		require.True(t, open)
		assert.NotEmpty(t, payload)
	case <-time.After(time.Second):
		t.Fatal("event not routed to latest connection")
	}

	// Unregistering the stale first connection must not evict the second
	hub.unregister <- first
	require.Eventually(t, func() bool {
		return hub.SendToUser(5, "ping", nil)
	}, time.Second, 10*time.Millisecond)
}
