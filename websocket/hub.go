package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Client is one live connection, keyed by account ID. A user opening a second
// connection replaces the first.
type Client struct {
	UserID uint
	Send   chan []byte
}

// Event is the envelope pushed to a receiver's live channel.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub tracks connected clients and routes events to them.
type Hub struct {
	clients    map[uint]*Client
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the clients map. Must be started once, before any connection is
// accepted.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok {
				close(old.Send)
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("websocket: client registered, user=%d", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("websocket: client unregistered, user=%d", client.UserID)
		}
	}
}

// SendToUser pushes an event to a user's live channel. Best-effort: a user who
// is offline or has a full buffer simply misses the event.
func (h *Hub) SendToUser(userID uint, eventType string, data interface{}) bool {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("websocket: failed to marshal event: %v", err)
		return false
	}

	// Run closes Send channels under the write lock; the read lock must be
	// held across the send so the channel stays open for it.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		log.Printf("websocket: send buffer full, dropping event for user=%d", userID)
		return false
	}
}
