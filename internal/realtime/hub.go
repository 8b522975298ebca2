// Package realtime broadcasts entity-change events to connected clients so
// open calendars and profile screens can re-fetch after a write.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is one entity change: a profile, task, or assignment that was
// created, updated, or deleted.
type Event struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Notify broadcasts an entity change to every connected client. A client
// whose send buffer is full misses the event rather than blocking the write
// path; it will catch up on its next full refresh.
func (h *Hub) Notify(entity, action string, id int64) {
	data, err := json.Marshal(Event{Entity: entity, Action: action, ID: id})
	if err != nil {
		h.logger.Error("marshal event", "entity", entity, "action", action, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
