// Package transport adapts the teacher's WebSocketHub to be per-room: each
// room.Room owns a Hub scoped to its own connected players, instead of the
// teacher's single global hub, because a snapshot broadcast must never
// cross room boundaries.
package transport

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub manages the set of live WebSocket connections for exactly one room.
type Hub struct {
	clients    map[*Connection]struct{}
	broadcast  chan []byte
	register   chan *Connection
	unregister chan *Connection
	mu         sync.RWMutex
}

// NewHub returns an unstarted, empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Connection]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
	}
}

// Run drives the hub's register/unregister/broadcast loop until stop is
// closed.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("room hub: client registered (%d total)", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("room hub: client unregistered (%d remaining)", count)

		case message := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
					c.conn.Close()
				}
			}
			h.mu.RUnlock()

		case <-stop:
			h.mu.Lock()
			for c := range h.clients {
				c.conn.Close()
			}
			h.clients = make(map[*Connection]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast enqueues a pre-encoded message to every connection, dropping it
// under backpressure rather than blocking the tick loop that produced it.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
	}
}

// ClientCount returns the number of currently registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
