package websocket

import (
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// ServeClient runs the read and write pumps for an authenticated connection.
// It blocks until the peer goes away; the caller is the fiber websocket
// handler, which expects exactly that.
func (h *Hub) ServeClient(userID uint, conn *websocket.Conn) {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
	h.register <- client

	done := make(chan struct{})

	// Write pump: hub events and keepalive pings.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case payload, ok := <-client.Send:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Read pump: the channel is push-only, inbound frames are drained for
	// pong handling and to detect the peer closing.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket: read error for user=%d: %v", userID, err)
			}
			break
		}
	}

	close(done)
	h.unregister <- client
}
